package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/everforgeworks/healing-clicker/internal/game"
	"github.com/everforgeworks/healing-clicker/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the saved game: points, upgrades, characters, achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			b, err := loadBalance(opts)
			if err != nil {
				return err
			}
			m, cleanup, err := openManager(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			// Restore without settling: status only reports what is pending.
			session := game.NewSession(b, nil, m)
			rec := m.Load(ctx)
			out := cmd.OutOrStdout()
			if rec == nil {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" no save found, a new game would start"))
				return nil
			}
			session.Restore(rec)
			pending := m.OfflineEarnings(session.Player, rec.LastPlayed)

			printStatus(out, session.Snapshot(), rec.LastPlayed, pending)
			return nil
		},
	}
	return cmd
}

func printStatus(out io.Writer, snap game.Snapshot, lastPlayed string, pending float64) {
	fmt.Fprintln(out, ui.Heading(ui.IconHeart, "Healing Clicker"))
	stats := []string{
		ui.LabelValue(ui.IconCoin+" Points", ui.Gold.Render(ui.Points(snap.Points))),
		ui.LabelValue("Lifetime", ui.Points(snap.TotalPointsEarned)),
		ui.LabelValue("Clicks", snap.TotalClicks),
		ui.LabelValue("Click power", snap.ClickPower),
		ui.LabelValue("Auto rate", fmt.Sprintf("%.1f/s", snap.AutoRate)),
		ui.LabelValue("Lucky chance", fmt.Sprintf("%.0f%%", snap.LuckyChance*100)),
		ui.LabelValue("Last played", ui.Muted.Render(lastPlayed)),
	}
	if pending > 0 {
		stats = append(stats, ui.LabelValue(ui.IconMoon+" Offline", ui.Good.Render("+"+ui.Points(pending)+" on next start")))
	}
	fmt.Fprintln(out, ui.Panel.Render(strings.Join(stats, "\n")))
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconShop+" Upgrades"))
	for _, u := range snap.Upgrades {
		next := ui.Points(float64(u.Cost))
		if u.Maxed {
			next = ui.Warn.Render("MAX")
		}
		fmt.Fprintf(out, "- %s lv %d %s\n", ui.Key.Render(u.Name), u.Level, ui.Muted.Render("(next "+next+")"))
	}
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconHeart+" Characters"))
	for _, c := range snap.Characters {
		marker := " "
		if c.Key == snap.CurrentCharacter {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s %s", marker, ui.Key.Render(c.Name), ui.Locked(c.Unlocked))
		if c.Unlocked {
			line += fmt.Sprintf(" %s %.1f %s", ui.Bar(c.Affection/snap.AffectionMax, 10), c.Affection, ui.Muted.Render(c.LevelName))
		} else if c.UnlockHint != "" {
			line += " " + ui.Muted.Render("("+c.UnlockHint+")")
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements %d/%d", ui.IconTrophy, snap.AchievementCount, len(snap.Achievements))))
	for _, a := range snap.Achievements {
		switch {
		case a.Unlocked:
			fmt.Fprintf(out, "- %s %s\n", ui.Good.Render(ui.IconSparkle+" "+a.Name), ui.Muted.Render(a.Description))
		case a.Progress != nil:
			fmt.Fprintf(out, "- %s %s\n", ui.Muted.Render(a.Name), ui.Bar(*a.Progress, 10))
		default:
			fmt.Fprintf(out, "- %s\n", ui.Muted.Render(a.Name+" "+ui.IconLock))
		}
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, ui.LabelValue("Events completed", snap.EventsCompleted))
}
