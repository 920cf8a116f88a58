package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/everforgeworks/healing-clicker/internal/ui"
)

const Version = "0.1.0"

// Persistent flags shared by every command.
type options struct {
	savePath    string
	storeKind   string
	slot        string
	balancePath string
}

var opts options

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clicker",
		Short:         "Healing Clicker: idle clicker progression server",
		Long:          "Healing Clicker runs the progression and economy engine of a cozy idle clicker and serves it to a renderer over HTTP and WebSocket.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	f := cmd.PersistentFlags()
	f.StringVar(&opts.savePath, "save", "savegame.json", "save location (JSON file, or SQLite database with --store sqlite)")
	f.StringVar(&opts.storeKind, "store", storeFile, "save backend: file or sqlite")
	f.StringVar(&opts.slot, "slot", "", "save slot inside the SQLite database")
	f.StringVar(&opts.balancePath, "balance", "", "balance catalog YAML (built-in defaults when empty)")

	cmd.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newResetCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
