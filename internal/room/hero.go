package room

// HeroTemplate is a hero kind's base stats before item bonuses, per
// spec.md §4.7.
type HeroTemplate struct {
	MaxHP   int
	Range   int
	Attack  int
	Defense int
}

// DefaultHeroTemplates is the compiled-in fallback hero table, matching
// spec.md §4.7's three fixed hero kinds exactly.
func DefaultHeroTemplates() map[HeroKind]HeroTemplate {
	return map[HeroKind]HeroTemplate{
		HeroWarrior: {MaxHP: 2000, Range: 2, Attack: 500, Defense: 80},
		HeroMage:    {MaxHP: 1500, Range: 6, Attack: 600, Defense: 50},
		HeroTank:    {MaxHP: 3000, Range: 2, Attack: 300, Defense: 120},
	}
}

// ItemID identifies one of the five purchasable items.
type ItemID int

const (
	ItemClothArmor ItemID = iota
	ItemIronSword
	ItemLifeStealBlade
	ItemRegenArmor
	ItemArmyBreaker
)

// ItemTemplate is a shop item's cost and stat bonuses. Loaded by default
// from DefaultShopItems, or overridden by internal/scripting's Lua-driven
// loader at battle init — either way the shape is this struct.
type ItemTemplate struct {
	ID             ItemID
	Cost           int
	AttackBonus    int
	DefenseBonus   int
	MaxHPBonus     int
	LifestealPct   float64
	PassiveRegen   bool // grants the 300hp/5s passive armor regen tick
}

// DefaultShopItems is the compiled-in fallback shop, matching spec.md
// §4.7's five fixed items exactly.
func DefaultShopItems() map[ItemID]ItemTemplate {
	return map[ItemID]ItemTemplate{
		ItemClothArmor: {ID: ItemClothArmor, Cost: 500, DefenseBonus: 50, MaxHPBonus: 500},
		ItemIronSword:  {ID: ItemIronSword, Cost: 500, AttackBonus: 100},
		ItemLifeStealBlade: {
			ID: ItemLifeStealBlade, Cost: 2000, AttackBonus: 300, LifestealPct: 0.2,
		},
		ItemRegenArmor: {
			ID: ItemRegenArmor, Cost: 2000, MaxHPBonus: 2000, DefenseBonus: 200, PassiveRegen: true,
		},
		ItemArmyBreaker: {ID: ItemArmyBreaker, Cost: 2000, AttackBonus: 500},
	}
}

// DerivedStats is a player's combat stats recomputed from their hero
// template plus every item currently held — never cached, per spec.md
// §4.7 ("derived stats are recomputed each access").
type DerivedStats struct {
	Attack       int
	Defense      int
	MaxHP        int
	LifestealPct float64
	PassiveRegen bool
}

func (r *Room) derivedStats(p *Player) DerivedStats {
	tmpl := r.heroes[p.Hero]
	d := DerivedStats{Attack: tmpl.Attack, Defense: p.BaseDef, MaxHP: tmpl.MaxHP}
	for _, id := range p.Inventory {
		it, ok := r.shop[id]
		if !ok {
			continue
		}
		d.Attack += it.AttackBonus
		d.Defense += it.DefenseBonus
		d.MaxHP += it.MaxHPBonus
		if it.LifestealPct > d.LifestealPct {
			d.LifestealPct = it.LifestealPct
		}
		d.PassiveRegen = d.PassiveRegen || it.PassiveRegen
	}
	return d
}

func (t HeroTemplate) AttackRangeSquared() int {
	return t.Range * t.Range
}
