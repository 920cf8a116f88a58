/*
Package game
File: achievements.go
Description:
    The Achievement Engine. Evaluates every locked achievement against the
    player ledger and the character tracker, records unlocks exactly once,
    and keeps the three one-shot flags (first lucky click, first offline
    grant, first resolved event) that act as extra conditions.
*/

package game

import "math"

// Achievements holds the unlock state of every achievement.
type Achievements struct {
	FirstLucky   bool
	FirstOffline bool
	FirstEvent   bool

	defs     []AchievementDefinition
	unlocked []string
	notified []string
	seen     map[string]bool
}

// NewAchievements creates an engine with nothing unlocked.
func NewAchievements(b *Balance) *Achievements {
	return &Achievements{
		defs: b.Achievements,
		seen: make(map[string]bool),
	}
}

// Definitions returns the static achievement list in catalog order.
func (a *Achievements) Definitions() []AchievementDefinition { return a.defs }

// CheckAll unlocks every achievement whose condition now holds.
// Each definition is returned at most once over the engine's lifetime; the
// caller grants the reward.
func (a *Achievements) CheckAll(p *Player, chars *Characters) []AchievementDefinition {
	var newly []AchievementDefinition
	for _, def := range a.defs {
		if a.seen[def.Key] {
			continue
		}
		// Count is re-read per definition so "achievements >= v" sees earlier unlocks in this pass.
		view := progress{
			player:       p,
			chars:        chars,
			achievements: a.Count(),
			firstLucky:   a.FirstLucky,
			firstOffline: a.FirstOffline,
			firstEvent:   a.FirstEvent,
		}
		if view.meets(def.Condition) {
			a.seen[def.Key] = true
			a.unlocked = append(a.unlocked, def.Key)
			newly = append(newly, def)
		}
	}
	return newly
}

// Progress returns how far a threshold achievement is along (0..1).
// ok is false for conditions without a meaningful ratio (flags, "all" kinds).
func (a *Achievements) Progress(def AchievementDefinition, p *Player, chars *Characters) (float64, bool) {
	if def.Condition.Value <= 0 {
		return 0, false
	}
	var current float64
	switch def.Condition.Kind {
	case CondTotalClicks:
		current = float64(p.TotalClicks)
	case CondTotalPoints:
		current = p.TotalPointsEarned
	case CondTotalUpgrades:
		current = float64(p.TotalUpgradeLevels())
	case CondMaxAffection:
		current = chars.MaxAffection()
	default:
		return 0, false
	}
	return math.Min(1, current/def.Condition.Value), true
}

func (a *Achievements) MarkLucky()   { a.FirstLucky = true }
func (a *Achievements) MarkOffline() { a.FirstOffline = true }
func (a *Achievements) MarkEvent()   { a.FirstEvent = true }

// Count returns the number of unlocked achievements.
func (a *Achievements) Count() int { return len(a.unlocked) }

// IsUnlocked reports whether an achievement has been earned.
func (a *Achievements) IsUnlocked(key string) bool { return a.seen[key] }

// Unlocked returns the unlocked keys in unlock order.
func (a *Achievements) Unlocked() []string {
	out := make([]string, len(a.unlocked))
	copy(out, a.unlocked)
	return out
}

// Notified returns the keys the presentation layer has already announced.
func (a *Achievements) Notified() []string {
	out := make([]string, len(a.notified))
	copy(out, a.notified)
	return out
}

// MarkNotified records that an unlocked achievement has been announced.
func (a *Achievements) MarkNotified(key string) {
	if !a.seen[key] {
		return
	}
	for _, k := range a.notified {
		if k == key {
			return
		}
	}
	a.notified = append(a.notified, key)
}

// Restore replaces the engine state with persisted values.
// Keys that are not in the catalog are dropped. Restored achievements are
// never re-rewarded.
func (a *Achievements) Restore(unlocked, notified []string, lucky, offline, event bool) {
	known := make(map[string]bool, len(a.defs))
	for _, def := range a.defs {
		known[def.Key] = true
	}

	a.unlocked = nil
	a.notified = nil
	a.seen = make(map[string]bool, len(unlocked))
	for _, key := range unlocked {
		if known[key] && !a.seen[key] {
			a.seen[key] = true
			a.unlocked = append(a.unlocked, key)
		}
	}
	for _, key := range notified {
		a.MarkNotified(key)
	}

	a.FirstLucky = lucky
	a.FirstOffline = offline
	a.FirstEvent = event
}
