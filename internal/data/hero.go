// Package data loads optional YAML override tables for values that
// otherwise come from room.DefaultHeroTemplates/DefaultShopItems,
// grounded on the teacher's internal/data package's load-into-struct,
// then-build-the-domain-map shape (see e.g. its LoadItemTable).
package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/arena/internal/room"
	"gopkg.in/yaml.v3"
)

type heroEntry struct {
	ID      int `yaml:"id"`
	MaxHP   int `yaml:"max_hp"`
	Range   int `yaml:"range"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
}

type heroListFile struct {
	Heroes []heroEntry `yaml:"heroes"`
}

// LoadHeroTemplates reads a YAML file of the form:
//
//	heroes:
//	  - {id: 1, max_hp: 2000, range: 2, attack: 500, defense: 80}
//
// and returns the resulting hero table keyed by room.HeroKind. Every one
// of room.DefaultHeroTemplates' three kinds must be present or the file
// is rejected, since a partial override would leave a hero with zeroed
// stats.
func LoadHeroTemplates(path string) (map[room.HeroKind]room.HeroTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hero templates: %w", err)
	}
	var f heroListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse hero templates: %w", err)
	}

	out := make(map[room.HeroKind]room.HeroTemplate, len(f.Heroes))
	for _, h := range f.Heroes {
		out[room.HeroKind(h.ID)] = room.HeroTemplate{
			MaxHP: h.MaxHP, Range: h.Range, Attack: h.Attack, Defense: h.Defense,
		}
	}

	for kind := range room.DefaultHeroTemplates() {
		if _, ok := out[kind]; !ok {
			return nil, fmt.Errorf("hero template file missing hero kind %d", kind)
		}
	}
	return out, nil
}
