/*
Package game
File: models.go
Description:
    Defines the static data structures of the clicker: upgrades, characters,
    affection levels, achievements and random event templates.
    This file serves as the "schema" for the balance catalog, mapping directly to
    'balance.yaml' and to the JSON snapshots handed to the presentation layer.

    No logic is performed here beyond small derived helpers.
*/

package game

import "math"

// UpgradeEffect names the player stat an upgrade contributes to.
type UpgradeEffect string

const (
	EffectClickPower  UpgradeEffect = "click_power"  // Flat points added per click
	EffectAutoRate    UpgradeEffect = "auto_rate"    // Points per second without clicking
	EffectLuckyChance UpgradeEffect = "lucky_chance" // Chance of a doubled click
)

// UpgradeDefinition is a permanent, levelled upgrade sold in the shop.
type UpgradeDefinition struct {
	Key            string        `yaml:"key" json:"key"`                         // Unique ID (e.g., "click_power")
	Name           string        `yaml:"name" json:"name"`                       // Display name
	Description    string        `yaml:"description" json:"description"`         // Flavor text
	Effect         UpgradeEffect `yaml:"effect" json:"effect"`                   // Stat this upgrade feeds
	BaseCost       float64       `yaml:"base_cost" json:"base_cost"`             // Price of level 1
	CostMultiplier float64       `yaml:"cost_multiplier" json:"cost_multiplier"` // Growth per owned level (> 1.0)
	EffectPerLevel float64       `yaml:"effect_per_level" json:"effect_per_level"`
	MaxLevel       int           `yaml:"max_level,omitempty" json:"max_level,omitempty"` // 0 means uncapped
}

// Price returns the exact price of the next level when 'level' levels are owned.
// Formula: floor(BaseCost * CostMultiplier^level)
// Very high levels yield +Inf rather than wrapping.
func (u UpgradeDefinition) Price(level int) float64 {
	return math.Floor(u.BaseCost * math.Pow(u.CostMultiplier, float64(level)))
}

// Cost is Price as an integer, saturating at math.MaxInt64.
func (u UpgradeDefinition) Cost(level int) int64 {
	p := u.Price(level)
	if math.IsNaN(p) || p >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(p)
}

// Capped reports whether the upgrade has reached its max level.
func (u UpgradeDefinition) Capped(level int) bool {
	return u.MaxLevel > 0 && level >= u.MaxLevel
}

// CharacterDefinition is a selectable character.
// A nil Unlock marks the starter character, which is unlocked from the beginning.
type CharacterDefinition struct {
	Key    string     `yaml:"key" json:"key"`
	Name   string     `yaml:"name" json:"name"`
	Theme  string     `yaml:"theme" json:"theme"`                       // Visual theme label, only used by renderers
	Unlock *Condition `yaml:"unlock,omitempty" json:"unlock,omitempty"` // nil = starter
}

// AffectionLevel is one row in the ascending affection table.
type AffectionLevel struct {
	Min        float64 `yaml:"min" json:"min"`               // Lowest affection value belonging to this level
	Name       string  `yaml:"name" json:"name"`             // Display name
	Expression string  `yaml:"expression" json:"expression"` // Face the renderer draws (normal, smile, blush, ...)
}

// AffectionGains lists how much affection each action grants.
type AffectionGains struct {
	Click        float64 `yaml:"click" json:"click"`
	Upgrade      float64 `yaml:"upgrade" json:"upgrade"`
	EventSuccess float64 `yaml:"event_success" json:"event_success"`
	DailyLogin   float64 `yaml:"daily_login" json:"daily_login"`
}

// AffectionConfig groups the affection tuning values.
type AffectionConfig struct {
	Max    float64          `yaml:"max" json:"max"`
	Levels []AffectionLevel `yaml:"levels" json:"levels"`
	Gains  AffectionGains   `yaml:"gains" json:"gains"`
}

// AchievementDefinition is a one-shot goal that pays a point reward.
type AchievementDefinition struct {
	Key         string    `yaml:"key" json:"key"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Reward      int64     `yaml:"reward" json:"reward"` // Points granted once on unlock
	Condition   Condition `yaml:"condition" json:"condition"`
}

// EventKind identifies a random event template.
type EventKind string

const (
	EventGoldRush       EventKind = "gold_rush"
	EventShootingStar   EventKind = "shooting_star"
	EventFlowerField    EventKind = "flower_field"
	EventRainbowVisitor EventKind = "rainbow_visitor"
)

// EventTemplate describes one kind of random event.
type EventTemplate struct {
	Kind        EventKind `yaml:"kind" json:"kind"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Duration    float64   `yaml:"duration" json:"duration"` // Seconds the event stays active
	Required    int       `yaml:"required" json:"required"` // Targets to collect; 0 = pure timed event

	ClickMultiplier     int     `yaml:"click_multiplier" json:"click_multiplier"`             // Applied to character clicks while active
	PointsPerClickPower int64   `yaml:"points_per_click_power" json:"points_per_click_power"` // Success reward = click power * this
	BonusAffection      float64 `yaml:"bonus_affection" json:"bonus_affection"`               // Extra affection on success
}

// Timed reports whether the event has no targets and succeeds by outlasting its duration.
func (t EventTemplate) Timed() bool {
	return t.Required <= 0
}

// SpawnArea bounds where event targets may appear (inclusive, screen units).
type SpawnArea struct {
	MinX int `yaml:"min_x" json:"min_x"`
	MaxX int `yaml:"max_x" json:"max_x"`
	MinY int `yaml:"min_y" json:"min_y"`
	MaxY int `yaml:"max_y" json:"max_y"`
}

// EventConfig stores the random event timing and hit-test tuning.
type EventConfig struct {
	MinInterval float64         `yaml:"min_interval" json:"min_interval"` // Shortest idle gap (seconds)
	MaxInterval float64         `yaml:"max_interval" json:"max_interval"` // Longest idle gap (seconds)
	AlertGrace  float64         `yaml:"alert_grace" json:"alert_grace"`   // Alert auto-starts after this long
	HitRadius   float64         `yaml:"hit_radius" json:"hit_radius"`     // Target click radius
	SpawnArea   SpawnArea       `yaml:"spawn_area" json:"spawn_area"`
	Templates   []EventTemplate `yaml:"templates" json:"templates"`
}

// OfflineConfig controls the offline settlement.
type OfflineConfig struct {
	Efficiency float64 `yaml:"efficiency" json:"efficiency"` // Fraction of auto income kept while away
	MaxHours   float64 `yaml:"max_hours" json:"max_hours"`   // Longest absence that still pays
}

// Balance is the root configuration struct, mapping to the entire 'balance.yaml' file.
type Balance struct {
	BaseClickPower   int     `yaml:"base_click_power" json:"base_click_power"`
	LuckyBaseChance  float64 `yaml:"lucky_base_chance" json:"lucky_base_chance"`   // Chance granted by the first lucky level
	LuckyMaxChance   float64 `yaml:"lucky_max_chance" json:"lucky_max_chance"`     // Hard cap on the lucky chance
	AutoSaveInterval float64 `yaml:"auto_save_interval" json:"auto_save_interval"` // Seconds between auto-saves

	Offline      OfflineConfig           `yaml:"offline" json:"offline"`
	Affection    AffectionConfig         `yaml:"affection" json:"affection"`
	Events       EventConfig             `yaml:"events" json:"events"`
	Upgrades     []UpgradeDefinition     `yaml:"upgrades" json:"upgrades"`
	Characters   []CharacterDefinition   `yaml:"characters" json:"characters"`
	Achievements []AchievementDefinition `yaml:"achievements" json:"achievements"`
}

// Point is a position in presentation-layer screen units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
