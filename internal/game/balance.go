/*
Package game
File: balance.go
Description:
    Loads and validates the balance catalog.
    The built-in DefaultBalance mirrors the shipped 'balance.yaml'; a YAML file
    can replace it wholesale (LoadBalance). Every catalog is validated before a
    session is built on it, so the rules engine never sees an unknown upgrade,
    a flat cost curve, or a character table without exactly one starter.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationError describes why a balance catalog was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("balance: %s: %s", e.Field, e.Reason)
}

// LoadBalance reads a YAML balance file and validates it.
func LoadBalance(path string) (*Balance, error) {
	// 1. Read the YAML file
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}

	// 2. Unmarshal + validate
	return ParseBalance(f)
}

// ParseBalance decodes and validates a YAML balance document.
func ParseBalance(data []byte) (*Balance, error) {
	var b Balance
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the invariants the rules engine relies on.
func (b *Balance) Validate() error {
	if b.LuckyMaxChance < 0 || b.LuckyMaxChance > 1 {
		return ValidationError{"lucky_max_chance", "must be within [0, 1]"}
	}
	if b.Offline.Efficiency < 0 || b.Offline.MaxHours < 0 {
		return ValidationError{"offline", "efficiency and max_hours must not be negative"}
	}

	// 1. Upgrades: unique keys and a strictly rising price curve
	if len(b.Upgrades) == 0 {
		return ValidationError{"upgrades", "at least one upgrade is required"}
	}
	seen := map[string]bool{}
	for _, u := range b.Upgrades {
		field := "upgrades." + u.Key
		if u.Key == "" || seen[u.Key] {
			return ValidationError{field, "key must be unique and non-empty"}
		}
		seen[u.Key] = true
		switch u.Effect {
		case EffectClickPower, EffectAutoRate, EffectLuckyChance:
		default:
			return ValidationError{field, fmt.Sprintf("unknown effect %q", u.Effect)}
		}
		if u.BaseCost <= 0 {
			return ValidationError{field, "base_cost must be positive"}
		}
		if u.CostMultiplier <= 1 {
			return ValidationError{field, "cost_multiplier must be > 1"}
		}
		// floor() could otherwise repeat a price between neighbouring levels.
		if u.BaseCost*(u.CostMultiplier-1) < 1 {
			return ValidationError{field, "base_cost * (cost_multiplier - 1) must be >= 1"}
		}
		if u.MaxLevel < 0 {
			return ValidationError{field, "max_level must not be negative"}
		}
	}

	// 2. Characters: unique keys, exactly one starter, threshold unlocks only
	starters := 0
	seen = map[string]bool{}
	for _, c := range b.Characters {
		if c.Key == "" || seen[c.Key] {
			return ValidationError{"characters." + c.Key, "key must be unique and non-empty"}
		}
		seen[c.Key] = true
		if c.Unlock == nil {
			starters++
			continue
		}
		switch c.Unlock.Kind {
		case CondTotalPoints, CondTotalClicks, CondAchievementsCount:
		default:
			return ValidationError{"characters." + c.Key, fmt.Sprintf("unlock type %s not allowed (total_points, total_clicks or achievements)", c.Unlock.Kind)}
		}
	}
	if starters != 1 {
		return ValidationError{"characters", fmt.Sprintf("exactly one starter (no unlock condition) required, found %d", starters)}
	}

	// 3. Affection table: starts at 0, strictly ascending
	levels := b.Affection.Levels
	if len(levels) == 0 || levels[0].Min != 0 {
		return ValidationError{"affection.levels", "first level must start at 0"}
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Min <= levels[i-1].Min {
			return ValidationError{"affection.levels", "minimums must be strictly ascending"}
		}
	}
	if b.Affection.Max <= 0 {
		return ValidationError{"affection.max", "must be positive"}
	}

	// 4. Achievements: unique keys
	seen = map[string]bool{}
	for _, a := range b.Achievements {
		if a.Key == "" || seen[a.Key] {
			return ValidationError{"achievements." + a.Key, "key must be unique and non-empty"}
		}
		seen[a.Key] = true
		if a.Reward < 0 {
			return ValidationError{"achievements." + a.Key, "reward must not be negative"}
		}
	}

	// 5. Events
	ev := b.Events
	if len(ev.Templates) == 0 {
		return ValidationError{"events.templates", "at least one template is required"}
	}
	if ev.MinInterval < 0 || ev.MinInterval > ev.MaxInterval {
		return ValidationError{"events", "need 0 <= min_interval <= max_interval"}
	}
	if ev.SpawnArea.MinX > ev.SpawnArea.MaxX || ev.SpawnArea.MinY > ev.SpawnArea.MaxY {
		return ValidationError{"events.spawn_area", "min must not exceed max"}
	}
	for _, t := range ev.Templates {
		if t.Duration <= 0 || t.Required < 0 {
			return ValidationError{"events.templates." + string(t.Kind), "duration must be positive and required non-negative"}
		}
	}
	return nil
}

func threshold(kind ConditionKind, v float64) *Condition {
	return &Condition{Kind: kind, Value: v}
}

// DefaultBalance returns the built-in catalog. It matches 'balance.yaml'.
func DefaultBalance() *Balance {
	return &Balance{
		BaseClickPower:   1,
		LuckyBaseChance:  0.10,
		LuckyMaxChance:   0.5,
		AutoSaveInterval: 30,
		Offline: OfflineConfig{
			Efficiency: 0.5,
			MaxHours:   24,
		},
		Affection: AffectionConfig{
			Max: 100,
			Levels: []AffectionLevel{
				{Min: 0, Name: "Stranger", Expression: "normal"},
				{Min: 10, Name: "Acquaintance", Expression: "smile"},
				{Min: 30, Name: "Friend", Expression: "blush"},
				{Min: 60, Name: "Close Friend", Expression: "sparkle"},
				{Min: 90, Name: "Soulmate", Expression: "rainbow"},
			},
			Gains: AffectionGains{Click: 0.1, Upgrade: 1.0, EventSuccess: 2.0, DailyLogin: 5.0},
		},
		Events: EventConfig{
			MinInterval: 120,
			MaxInterval: 300,
			AlertGrace:  5.0,
			HitRadius:   30,
			SpawnArea:   SpawnArea{MinX: 100, MaxX: 800, MinY: 150, MaxY: 550},
			Templates: []EventTemplate{
				{Kind: EventGoldRush, Name: "Gold Rush", Description: "Click points x5 for 10 seconds!", Duration: 10, Required: 0, ClickMultiplier: 5},
				{Kind: EventShootingStar, Name: "Shooting Stars", Description: "Catch the shooting stars!", Duration: 15, Required: 3, ClickMultiplier: 1, PointsPerClickPower: 50},
				{Kind: EventFlowerField, Name: "Flower Field", Description: "Pick the flowers!", Duration: 20, Required: 5, ClickMultiplier: 1, PointsPerClickPower: 30},
				{Kind: EventRainbowVisitor, Name: "Rainbow Visitor", Description: "A mysterious visitor appeared!", Duration: 10, Required: 1, ClickMultiplier: 1, BonusAffection: 3.0},
			},
		},
		Upgrades: []UpgradeDefinition{
			{Key: "click_power", Name: "Gentle Pat", Description: "+1 point per click", Effect: EffectClickPower, BaseCost: 10, CostMultiplier: 1.15, EffectPerLevel: 1},
			{Key: "auto_click", Name: "Helper Fairy", Description: "+1 point every second", Effect: EffectAutoRate, BaseCost: 50, CostMultiplier: 1.15, EffectPerLevel: 1},
			{Key: "lucky_bonus", Name: "Lucky Charm", Description: "Chance to double a click", Effect: EffectLuckyChance, BaseCost: 200, CostMultiplier: 1.20, EffectPerLevel: 5, MaxLevel: 10},
			{Key: "golden_touch", Name: "Golden Touch", Description: "+5 points per click", Effect: EffectClickPower, BaseCost: 500, CostMultiplier: 1.18, EffectPerLevel: 5},
			{Key: "fairy_army", Name: "Fairy Army", Description: "+10 points every second", Effect: EffectAutoRate, BaseCost: 2000, CostMultiplier: 1.15, EffectPerLevel: 10},
		},
		Characters: []CharacterDefinition{
			{Key: "hana", Name: "Hana", Theme: "Flower girl"},
			{Key: "sora", Name: "Sora", Theme: "Sky dreamer", Unlock: threshold(CondTotalPoints, 5000)},
			{Key: "rin", Name: "Rin", Theme: "Bell ringer", Unlock: threshold(CondTotalClicks, 1000)},
			{Key: "yuki", Name: "Yuki", Theme: "Snow spirit", Unlock: threshold(CondAchievementsCount, 8)},
		},
		Achievements: []AchievementDefinition{
			{Key: "first_click", Name: "First Touch", Description: "Click once", Reward: 10, Condition: Condition{Kind: CondTotalClicks, Value: 1}},
			{Key: "clicks_100", Name: "Warming Up", Description: "Click 100 times", Reward: 100, Condition: Condition{Kind: CondTotalClicks, Value: 100}},
			{Key: "clicks_1000", Name: "Devoted", Description: "Click 1,000 times", Reward: 1000, Condition: Condition{Kind: CondTotalClicks, Value: 1000}},
			{Key: "clicks_10000", Name: "Unstoppable", Description: "Click 10,000 times", Reward: 10000, Condition: Condition{Kind: CondTotalClicks, Value: 10000}},
			{Key: "points_1k", Name: "Pocket Money", Description: "Earn 1,000 points", Reward: 100, Condition: Condition{Kind: CondTotalPoints, Value: 1000}},
			{Key: "points_100k", Name: "Savings", Description: "Earn 100,000 points", Reward: 5000, Condition: Condition{Kind: CondTotalPoints, Value: 100000}},
			{Key: "points_1m", Name: "Millionaire", Description: "Earn 1,000,000 points", Reward: 50000, Condition: Condition{Kind: CondTotalPoints, Value: 1000000}},
			{Key: "upgrades_10", Name: "Shopper", Description: "Buy 10 upgrade levels", Reward: 200, Condition: Condition{Kind: CondTotalUpgrades, Value: 10}},
			{Key: "upgrades_50", Name: "Collector", Description: "Buy 50 upgrade levels", Reward: 2000, Condition: Condition{Kind: CondTotalUpgrades, Value: 50}},
			{Key: "all_upgrades_5", Name: "Well Rounded", Description: "Every upgrade at level 5", Reward: 5000, Condition: Condition{Kind: CondAllUpgradesLevel, Value: 5}},
			{Key: "affection_50", Name: "Close Bond", Description: "Reach 50 affection with anyone", Reward: 500, Condition: Condition{Kind: CondMaxAffection, Value: 50}},
			{Key: "affection_all_30", Name: "Everyone's Friend", Description: "Reach 30 affection with everyone", Reward: 3000, Condition: Condition{Kind: CondAllAffection, Value: 30}},
			{Key: "first_lucky", Name: "Lucky Day", Description: "Land a lucky click", Reward: 50, Condition: Condition{Kind: CondFirstLucky}},
			{Key: "first_offline", Name: "Welcome Back", Description: "Collect offline earnings", Reward: 100, Condition: Condition{Kind: CondFirstOffline}},
			{Key: "first_event", Name: "Eventful", Description: "See a random event through", Reward: 100, Condition: Condition{Kind: CondFirstEvent}},
		},
	}
}
