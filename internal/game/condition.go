/*
Package game
File: condition.go
Description:
    Unlock conditions shared by achievements and characters.
    A Condition is a closed kind plus a target value. It decodes from the
    catalog's {type, value} form in YAML or JSON and is evaluated against
    the player's progress.
*/

package game

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConditionKind is the closed set of things an achievement or character unlock can test.
type ConditionKind int

const (
	CondTotalClicks       ConditionKind = iota + 1 // total_clicks >= v
	CondTotalPoints                                // total_points_earned >= v
	CondTotalUpgrades                              // sum of upgrade levels >= v
	CondAllUpgradesLevel                           // every upgrade level >= v
	CondMaxAffection                               // highest affection >= v
	CondAllAffection                               // every character's affection >= v
	CondAchievementsCount                          // unlocked achievements >= v
	CondFirstLucky                                 // a lucky click has happened
	CondFirstOffline                               // an offline grant has been paid
	CondFirstEvent                                 // a random event has resolved
)

var conditionNames = map[ConditionKind]string{
	CondTotalClicks:       "total_clicks",
	CondTotalPoints:       "total_points",
	CondTotalUpgrades:     "total_upgrades",
	CondAllUpgradesLevel:  "all_upgrades_lv",
	CondMaxAffection:      "max_affection",
	CondAllAffection:      "all_affection",
	CondAchievementsCount: "achievements",
	CondFirstLucky:        "first_lucky",
	CondFirstOffline:      "first_offline",
	CondFirstEvent:        "first_event",
}

func (k ConditionKind) String() string {
	if name, ok := conditionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("condition(%d)", int(k))
}

// ParseConditionKind maps the catalog spelling of a condition to its kind.
func ParseConditionKind(s string) (ConditionKind, error) {
	for k, name := range conditionNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown condition type %q", s)
}

// Condition is a kind plus its threshold. Flag kinds ignore Value.
type Condition struct {
	Kind  ConditionKind
	Value float64
}

// IsFlag reports whether the condition is one of the one-shot boolean flags.
func (c Condition) IsFlag() bool {
	switch c.Kind {
	case CondFirstLucky, CondFirstOffline, CondFirstEvent:
		return true
	}
	return false
}

func (c Condition) String() string {
	if c.IsFlag() {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s >= %g", c.Kind, c.Value)
}

// conditionWire is the {type, value} shape used by YAML and JSON.
type conditionWire struct {
	Type  string  `yaml:"type" json:"type"`
	Value float64 `yaml:"value,omitempty" json:"value,omitempty"`
}

func (c *Condition) fromWire(w conditionWire) error {
	kind, err := ParseConditionKind(w.Type)
	if err != nil {
		return err
	}
	c.Kind = kind
	c.Value = w.Value
	return nil
}

func (c Condition) MarshalYAML() (interface{}, error) {
	return conditionWire{Type: c.Kind.String(), Value: c.Value}, nil
}

func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	var w conditionWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return c.fromWire(w)
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionWire{Type: c.Kind.String(), Value: c.Value})
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var w conditionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return c.fromWire(w)
}

// progress is the read-only view a condition is tested against.
// Holders may be nil; conditions that need a missing holder are false.
type progress struct {
	player       *Player
	chars        *Characters
	achievements int // unlocked achievement count

	firstLucky, firstOffline, firstEvent bool
}

func (s progress) meets(c Condition) bool {
	switch c.Kind {
	case CondTotalClicks:
		return s.player != nil && float64(s.player.TotalClicks) >= c.Value
	case CondTotalPoints:
		return s.player != nil && s.player.TotalPointsEarned >= c.Value
	case CondTotalUpgrades:
		return s.player != nil && float64(s.player.TotalUpgradeLevels()) >= c.Value
	case CondAllUpgradesLevel:
		return s.player != nil && s.player.AllUpgradesAtLeast(c.Value)
	case CondMaxAffection:
		return s.chars != nil && s.chars.MaxAffection() >= c.Value
	case CondAllAffection:
		return s.chars != nil && s.chars.AllAffectionAtLeast(c.Value)
	case CondAchievementsCount:
		return float64(s.achievements) >= c.Value
	case CondFirstLucky:
		return s.firstLucky
	case CondFirstOffline:
		return s.firstOffline
	case CondFirstEvent:
		return s.firstEvent
	default:
		return false
	}
}
