// Package scripting wraps a single gopher-lua VM, trimmed down from the
// teacher's internal/scripting/engine.go (which bridges dozens of
// combat/skill/regen/AI formulas) to the one place spec.md invites
// data-driven tuning outside its pinned combat invariants: the shop's
// item templates. Every pinned formula (tower damage ramp, life-steal,
// boss burst/shockwave, ...) stays plain deterministic Go in
// internal/room; only the five item costs/bonuses are Lua-loadable.
package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/l1jgo/arena/internal/room"
	"go.uber.org/zap"
)

// Engine owns one Lua VM. Single-goroutine access only — call it once
// at boot, before any room is created, never from Tick.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{vm: lua.NewState(), log: log}
}

func (e *Engine) Close() { e.vm.Close() }

// LoadShopItems evaluates a Lua file defining a global `shop` table of
// {id, cost, attack, defense, max_hp, lifesteal_pct, passive_regen}
// rows and returns the resulting item templates. On any error — file
// missing, parse failure, malformed table — it logs and falls back to
// room.DefaultShopItems(), mirroring the teacher's "always have a
// Go-side default" rule for every Lua bridge point.
func (e *Engine) LoadShopItems(path string) map[room.ItemID]room.ItemTemplate {
	if err := e.vm.DoFile(path); err != nil {
		e.log.Warn("shop script load failed, using built-in defaults", zap.String("path", path), zap.Error(err))
		return room.DefaultShopItems()
	}

	tbl, ok := e.vm.GetGlobal("shop").(*lua.LTable)
	if !ok {
		e.log.Warn("shop script has no `shop` table, using built-in defaults", zap.String("path", path))
		return room.DefaultShopItems()
	}

	items, err := parseShopTable(tbl)
	if err != nil {
		e.log.Warn("shop script malformed, using built-in defaults", zap.String("path", path), zap.Error(err))
		return room.DefaultShopItems()
	}
	return items
}

func parseShopTable(tbl *lua.LTable) (map[room.ItemID]room.ItemTemplate, error) {
	items := make(map[room.ItemID]room.ItemTemplate)
	var parseErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if parseErr != nil {
			return
		}
		row, ok := v.(*lua.LTable)
		if !ok {
			parseErr = fmt.Errorf("shop row is not a table")
			return
		}
		id := room.ItemID(lInt(row, "id"))
		items[id] = room.ItemTemplate{
			ID:           id,
			Cost:         lInt(row, "cost"),
			AttackBonus:  lInt(row, "attack"),
			DefenseBonus: lInt(row, "defense"),
			MaxHPBonus:   lInt(row, "max_hp"),
			LifestealPct: float64(lua.LVAsNumber(row.RawGetString("lifesteal_pct"))),
			PassiveRegen: row.RawGetString("passive_regen") == lua.LTrue,
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("shop table is empty")
	}
	return items, nil
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}
