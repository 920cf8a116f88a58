/*
Package game
File: characters.go
Description:
    Tracks the unlockable characters: which ones are unlocked, which one is
    currently selected, and how much affection the player has built with each.
    Affection levels (and the expression a renderer should draw) are derived
    from the ascending level table, never stored.
*/

package game

import "math"

// Characters is the Character/Affection tracker.
type Characters struct {
	defs      []CharacterDefinition
	cfg       AffectionConfig
	starter   string
	current   string
	unlocked  []string
	affection map[string]float64
}

// NewCharacters starts a tracker with only the starter character unlocked and selected.
func NewCharacters(b *Balance) *Characters {
	c := &Characters{
		defs:      b.Characters,
		cfg:       b.Affection,
		affection: make(map[string]float64, len(b.Characters)),
	}
	for _, d := range b.Characters {
		c.affection[d.Key] = 0
		if d.Unlock == nil && c.starter == "" {
			c.starter = d.Key
		}
	}
	c.current = c.starter
	c.unlocked = []string{c.starter}
	return c
}

// Current returns the selected character key.
func (c *Characters) Current() string { return c.current }

// Starter returns the key of the character that is unlocked from the start.
func (c *Characters) Starter() string { return c.starter }

// Unlocked returns the unlocked keys in unlock order.
func (c *Characters) Unlocked() []string {
	out := make([]string, len(c.unlocked))
	copy(out, c.unlocked)
	return out
}

// IsUnlocked reports whether a character can be selected.
func (c *Characters) IsUnlocked(key string) bool {
	for _, k := range c.unlocked {
		if k == key {
			return true
		}
	}
	return false
}

// Definitions returns the static character list in catalog order.
func (c *Characters) Definitions() []CharacterDefinition { return c.defs }

// AddAffection adds affection to the current character.
func (c *Characters) AddAffection(amount float64) {
	c.AddAffectionTo(c.current, amount)
}

// AddAffectionTo adds affection to one character, clamped to [0, Max].
// Unknown keys are ignored.
func (c *Characters) AddAffectionTo(key string, amount float64) {
	val, ok := c.affection[key]
	if !ok || math.IsNaN(amount) {
		return
	}
	c.affection[key] = c.clamp(val + amount)
}

func (c *Characters) clamp(v float64) float64 {
	return math.Max(0, math.Min(c.cfg.Max, v))
}

// Affection returns a character's affection (0 for unknown keys).
func (c *Characters) Affection(key string) float64 {
	return c.affection[key]
}

// AffectionMap returns a copy of every character's affection.
func (c *Characters) AffectionMap() map[string]float64 {
	out := make(map[string]float64, len(c.affection))
	for k, v := range c.affection {
		out[k] = v
	}
	return out
}

// LevelIndex returns the highest level whose minimum the character's affection meets.
// Level 0 starts at 0, so the result is always defined.
func (c *Characters) LevelIndex(key string) int {
	val := c.Affection(key)
	level := 0
	for i, lv := range c.cfg.Levels {
		if val >= lv.Min {
			level = i
		}
	}
	return level
}

// Level returns the level row for a character.
func (c *Characters) Level(key string) AffectionLevel {
	if len(c.cfg.Levels) == 0 {
		return AffectionLevel{}
	}
	return c.cfg.Levels[c.LevelIndex(key)]
}

// MaxAffection returns the highest affection across all characters.
func (c *Characters) MaxAffection() float64 {
	best := 0.0
	for _, v := range c.affection {
		best = math.Max(best, v)
	}
	return best
}

// AllAffectionAtLeast reports whether every character (locked ones included) reached 'threshold'.
func (c *Characters) AllAffectionAtLeast(threshold float64) bool {
	for _, v := range c.affection {
		if v < threshold {
			return false
		}
	}
	return true
}

// CheckUnlocks unlocks every locked character whose condition now holds and
// returns only the newly unlocked keys.
func (c *Characters) CheckUnlocks(p *Player, achievementCount int) []string {
	view := progress{player: p, chars: c, achievements: achievementCount}

	var newly []string
	for _, d := range c.defs {
		if c.IsUnlocked(d.Key) {
			continue
		}
		if d.Unlock == nil || view.meets(*d.Unlock) {
			c.unlocked = append(c.unlocked, d.Key)
			newly = append(newly, d.Key)
		}
	}
	return newly
}

// Switch selects an unlocked character. Locked or unknown keys are refused.
func (c *Characters) Switch(key string) bool {
	if !c.IsUnlocked(key) {
		return false
	}
	c.current = key
	return true
}

// Restore replaces the tracker state with persisted values.
// Unknown keys are dropped, the starter is always kept unlocked, and a
// selection that is not unlocked falls back to the starter.
func (c *Characters) Restore(current string, unlocked []string, affection map[string]float64) {
	c.unlocked = []string{c.starter}
	for _, key := range unlocked {
		if _, known := c.affection[key]; !known || c.IsUnlocked(key) {
			continue
		}
		c.unlocked = append(c.unlocked, key)
	}

	for key := range c.affection {
		if v, ok := affection[key]; ok {
			c.affection[key] = c.clamp(v)
		}
	}

	c.current = c.starter
	if current != "" && c.IsUnlocked(current) {
		c.current = current
	}
}
