package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/arena/internal/room"
)

func writeHeroFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heroes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write heroes file: %v", err)
	}
	return path
}

func TestLoadHeroTemplates(t *testing.T) {
	path := writeHeroFile(t, `
heroes:
  - {id: 1, max_hp: 2200, range: 2, attack: 520, defense: 90}
  - {id: 2, max_hp: 1500, range: 6, attack: 600, defense: 50}
  - {id: 3, max_hp: 3000, range: 2, attack: 300, defense: 120}
`)
	heroes, err := LoadHeroTemplates(path)
	if err != nil {
		t.Fatalf("LoadHeroTemplates() error = %v", err)
	}
	got := heroes[room.HeroWarrior]
	if got.MaxHP != 2200 || got.Attack != 520 || got.Defense != 90 {
		t.Fatalf("HeroWarrior = %+v, want overridden stats", got)
	}
}

func TestLoadHeroTemplatesRejectsMissingKind(t *testing.T) {
	path := writeHeroFile(t, `
heroes:
  - {id: 1, max_hp: 2200, range: 2, attack: 520, defense: 90}
`)
	if _, err := LoadHeroTemplates(path); err == nil {
		t.Fatal("LoadHeroTemplates() error = nil, want error for missing hero kinds")
	}
}

func TestLoadHeroTemplatesMissingFile(t *testing.T) {
	if _, err := LoadHeroTemplates(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadHeroTemplates() error = nil, want error for missing file")
	}
}
