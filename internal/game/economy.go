/*
Package game
File: economy.go
Description:
    Handles the point economy of a single player.
    This includes:
    1. The Player Ledger (points, lifetime totals, upgrade levels).
    2. Derived stats: click power, auto rate and lucky chance.
    3. Upgrade pricing, affordability and purchases.
    4. Click resolution, including the lucky double roll.
*/

package game

import "math"

// maxClickPower bounds ClickPower so the gold rush and lucky multipliers
// applied on top of it stay within int range.
const maxClickPower = 1 << 50

// Player is the mutable per-player ledger.
type Player struct {
	Points            float64        // Spendable balance, never negative
	TotalPointsEarned float64        // Lifetime earnings, only ever grows
	TotalClicks       int            // Lifetime manual clicks
	UpgradeLevels     map[string]int // Upgrade key -> owned level

	balance  *Balance
	upgrades map[string]UpgradeDefinition
}

// NewPlayer creates a zeroed ledger with every known upgrade at level 0.
func NewPlayer(b *Balance) *Player {
	p := &Player{
		UpgradeLevels: make(map[string]int, len(b.Upgrades)),
		balance:       b,
		upgrades:      make(map[string]UpgradeDefinition, len(b.Upgrades)),
	}
	for _, u := range b.Upgrades {
		p.upgrades[u.Key] = u
		p.UpgradeLevels[u.Key] = 0
	}
	return p
}

// Upgrade looks up an upgrade definition by key.
func (p *Player) Upgrade(key string) (UpgradeDefinition, bool) {
	u, ok := p.upgrades[key]
	return u, ok
}

// Level returns the owned level of an upgrade (0 for unknown keys).
func (p *Player) Level(key string) int {
	return p.UpgradeLevels[key]
}

// ClickPower is the points granted per manual click before multipliers.
// Formula: BaseClickPower + sum(level * effect) over click_power upgrades
func (p *Player) ClickPower() int {
	power := float64(p.balance.BaseClickPower)
	for _, u := range p.balance.Upgrades {
		if u.Effect == EffectClickPower {
			power += float64(p.UpgradeLevels[u.Key]) * u.EffectPerLevel
		}
	}
	if power >= maxClickPower {
		return maxClickPower
	}
	return int(power)
}

// AutoRate is the passive income in points per second.
func (p *Player) AutoRate() float64 {
	rate := 0.0
	for _, u := range p.balance.Upgrades {
		if u.Effect == EffectAutoRate {
			rate += float64(p.UpgradeLevels[u.Key]) * u.EffectPerLevel
		}
	}
	return rate
}

// LuckyChance returns the probability in [0, LuckyMaxChance] that a click is doubled.
// The first level jumps straight to LuckyBaseChance; every later level only adds
// EffectPerLevel percent.
func (p *Player) LuckyChance() float64 {
	chance := 0.0
	for _, u := range p.balance.Upgrades {
		if u.Effect != EffectLuckyChance {
			continue
		}
		level := p.UpgradeLevels[u.Key]
		if level > 0 {
			chance += p.balance.LuckyBaseChance + float64(level-1)*(u.EffectPerLevel/100.0)
		}
	}
	return math.Min(chance, p.balance.LuckyMaxChance)
}

// UpgradeCost returns the price of the next level of an upgrade (0 for unknown keys).
func (p *Player) UpgradeCost(key string) int64 {
	u, ok := p.upgrades[key]
	if !ok {
		return 0
	}
	return u.Cost(p.UpgradeLevels[key])
}

// CanAfford reports whether the next level of an upgrade can be bought right now.
func (p *Player) CanAfford(key string) bool {
	u, ok := p.upgrades[key]
	if !ok {
		return false
	}
	level := p.UpgradeLevels[key]
	if u.Capped(level) {
		return false
	}
	price := u.Price(level)
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return false
	}
	return p.Points >= price
}

// Purchase buys one level of an upgrade.
// Returns false, leaving the ledger untouched, when the purchase is not allowed.
func (p *Player) Purchase(key string) bool {
	// 1. Re-validate (cap + balance)
	if !p.CanAfford(key) {
		return false
	}

	// 2. Deduct the integer price and raise the level
	u := p.upgrades[key]
	p.Points -= u.Price(p.UpgradeLevels[key])
	p.UpgradeLevels[key]++
	return true
}

// AddPoints credits earnings to both the balance and the lifetime total.
// Non-positive amounts are ignored so lifetime totals can never shrink.
func (p *Player) AddPoints(amount float64) {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return
	}
	p.Points += amount
	p.TotalPointsEarned += amount
}

// Click resolves one manual click.
// 'roll' is a uniform draw in [0, 1); a roll below LuckyChance doubles the award.
func (p *Player) Click(multiplier int, roll float64) (awarded int, lucky bool) {
	if multiplier < 1 {
		multiplier = 1
	}
	awarded = p.ClickPower() * multiplier
	if roll < p.LuckyChance() {
		awarded *= 2
		lucky = true
	}
	p.AddPoints(float64(awarded))
	p.TotalClicks++
	return awarded, lucky
}

// TotalUpgradeLevels sums every owned upgrade level.
func (p *Player) TotalUpgradeLevels() int {
	total := 0
	for _, u := range p.balance.Upgrades {
		total += p.UpgradeLevels[u.Key]
	}
	return total
}

// AllUpgradesAtLeast reports whether every upgrade reached 'level'.
// A threshold above an upgrade's max level is simply never met.
func (p *Player) AllUpgradesAtLeast(level float64) bool {
	for _, u := range p.balance.Upgrades {
		if float64(p.UpgradeLevels[u.Key]) < level {
			return false
		}
	}
	return true
}
