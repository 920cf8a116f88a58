package game

import (
	"testing"
)

func keysOf(defs []AchievementDefinition) []string {
	var out []string
	for _, d := range defs {
		out = append(out, d.Key)
	}
	return out
}

func TestCheckAllReturnsOnce(t *testing.T) {
	b := DefaultBalance()
	p := NewPlayer(b)
	c := NewCharacters(b)
	a := NewAchievements(b)

	if got := a.CheckAll(p, c); len(got) != 0 {
		t.Fatalf("fresh game unlocked %v", keysOf(got))
	}

	p.Click(1, 0.99)
	got := a.CheckAll(p, c)
	if len(got) != 1 || got[0].Key != "first_click" {
		t.Fatalf("unlocked %v, want [first_click]", keysOf(got))
	}
	if got[0].Reward != 10 {
		t.Errorf("reward = %d, want 10", got[0].Reward)
	}
	if again := a.CheckAll(p, c); len(again) != 0 {
		t.Fatalf("first_click returned twice: %v", keysOf(again))
	}
	if a.Count() != 1 || !a.IsUnlocked("first_click") {
		t.Errorf("count = %d, unlocked = %v", a.Count(), a.Unlocked())
	}
}

func TestFlagAchievements(t *testing.T) {
	b := DefaultBalance()
	p := NewPlayer(b)
	c := NewCharacters(b)
	a := NewAchievements(b)

	a.MarkLucky()
	a.MarkLucky()
	a.MarkEvent()
	got := keysOf(a.CheckAll(p, c))
	if len(got) != 2 || got[0] != "first_lucky" || got[1] != "first_event" {
		t.Fatalf("unlocked %v, want [first_lucky first_event]", got)
	}

	a.MarkOffline()
	if got := keysOf(a.CheckAll(p, c)); len(got) != 1 || got[0] != "first_offline" {
		t.Fatalf("unlocked %v, want [first_offline]", got)
	}
}

func TestAllUpgradesAboveMaxLevelNeverMet(t *testing.T) {
	b := DefaultBalance()
	p := NewPlayer(b)
	for key := range p.UpgradeLevels {
		p.UpgradeLevels[key] = 100
	}
	p.UpgradeLevels["lucky_bonus"] = 10

	view := progress{player: p}
	if view.meets(Condition{Kind: CondAllUpgradesLevel, Value: 20}) {
		t.Error("all_upgrades_lv 20 met although lucky_bonus caps at 10")
	}
	if !view.meets(Condition{Kind: CondAllUpgradesLevel, Value: 10}) {
		t.Error("all_upgrades_lv 10 not met")
	}
}

func TestConditionKinds(t *testing.T) {
	b := DefaultBalance()
	p := NewPlayer(b)
	c := NewCharacters(b)
	p.TotalClicks = 100
	p.AddPoints(2500)
	p.UpgradeLevels["auto_click"] = 7
	c.AddAffection(55)

	view := progress{player: p, chars: c, achievements: 3, firstEvent: true}
	tests := []struct {
		cond Condition
		want bool
	}{
		{Condition{CondTotalClicks, 100}, true},
		{Condition{CondTotalClicks, 101}, false},
		{Condition{CondTotalPoints, 2500}, true},
		{Condition{CondTotalUpgrades, 8}, false},
		{Condition{CondMaxAffection, 50}, true},
		{Condition{CondAllAffection, 30}, false},
		{Condition{CondAchievementsCount, 3}, true},
		{Condition{CondFirstLucky, 0}, false},
		{Condition{CondFirstEvent, 0}, true},
		{Condition{ConditionKind(99), 0}, false},
	}
	for _, tt := range tests {
		if got := view.meets(tt.cond); got != tt.want {
			t.Errorf("%v: meets = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestAchievementProgress(t *testing.T) {
	b := DefaultBalance()
	p := NewPlayer(b)
	c := NewCharacters(b)
	a := NewAchievements(b)
	p.TotalClicks = 50

	byKey := map[string]AchievementDefinition{}
	for _, d := range b.Achievements {
		byKey[d.Key] = d
	}

	if got, ok := a.Progress(byKey["clicks_100"], p, c); !ok || got != 0.5 {
		t.Errorf("clicks_100 progress = (%v, %v), want (0.5, true)", got, ok)
	}
	if got, ok := a.Progress(byKey["first_click"], p, c); !ok || got != 1 {
		t.Errorf("first_click progress = (%v, %v), want capped (1, true)", got, ok)
	}
	if _, ok := a.Progress(byKey["first_lucky"], p, c); ok {
		t.Error("flag achievement reported a ratio")
	}
}

func TestAchievementsRestoreAndNotify(t *testing.T) {
	a := NewAchievements(DefaultBalance())
	a.Restore([]string{"first_click", "bogus", "first_click"}, []string{"first_click", "clicks_100"}, true, false, true)

	if a.Count() != 1 || !a.IsUnlocked("first_click") || a.IsUnlocked("bogus") {
		t.Fatalf("restored unlocked = %v", a.Unlocked())
	}
	if n := a.Notified(); len(n) != 1 || n[0] != "first_click" {
		t.Errorf("notified = %v, want [first_click]", n)
	}
	if !a.FirstLucky || a.FirstOffline || !a.FirstEvent {
		t.Errorf("flags = %v %v %v", a.FirstLucky, a.FirstOffline, a.FirstEvent)
	}

	a.MarkNotified("clicks_100")
	if len(a.Notified()) != 1 {
		t.Error("locked achievement marked notified")
	}
}
