package loader

import (
	stderrors "errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nathoo/gacharealm/content"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

func TestLoadFS_DefaultContent(t *testing.T) {
	cat, warnings, err := LoadFS(content.FS)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if cat.Game.Title != "GachaRealm" || cat.Game.EnhanceMaterial != "magic_stone" {
		t.Errorf("game = %+v", cat.Game)
	}
	if n := len(cat.Items); n != 70 {
		t.Errorf("expected 70 items, got %d", n)
	}
	if len(cat.Pets) != 3 || len(cat.Monsters) != 4 || len(cat.Dungeons) != 3 {
		t.Errorf("pets=%d monsters=%d dungeons=%d", len(cat.Pets), len(cat.Monsters), len(cat.Dungeons))
	}
	if len(cat.Quests) != 4 || len(cat.Recipes) != 2 || len(cat.Town) != 5 || len(cat.Milestones) != 4 {
		t.Errorf("quests=%d recipes=%d town=%d milestones=%d",
			len(cat.Quests), len(cat.Recipes), len(cat.Town), len(cat.Milestones))
	}
	if len(cat.Classes) != 3 || len(cat.Gachas) != 2 {
		t.Errorf("classes=%d gachas=%d", len(cat.Classes), len(cat.Gachas))
	}

	p := state.NewPlayer(cat)
	if p.Name != "Adventurer" || p.HP != 50 || p.MaxHP != 50 || p.Attack != 5 || p.Defense != 2 || p.Gold != 100 {
		t.Errorf("starting player = %+v", p)
	}
	if p.Equipment.Weapon == nil || p.Equipment.Weapon.ItemID != "wooden_club" {
		t.Errorf("starting weapon = %+v", p.Equipment.Weapon)
	}

	gs := cat.Items["golden_gun"]
	if gs.Damage != 77 || gs.CritMultiplier != 3.0 || gs.WeaponType != "Gun" || gs.Grade != types.GradeLegendary {
		t.Errorf("golden_gun = %+v", gs)
	}
	if cat.Monsters["dungeon_guardian"].Wild {
		t.Error("dungeon guardian must not be wild")
	}
	if cat.Milestones[0].Trophies != 100 || cat.Milestones[3].Trophies != 1000 {
		t.Errorf("milestones out of order: %+v", cat.Milestones)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, _, err := Load("testdata/does-not-exist")
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadFS_NoLuaFiles(t *testing.T) {
	_, _, err := LoadFS(fstest.MapFS{"README.md": {Data: []byte("hi")}})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestLoadFS_BadLuaSyntax(t *testing.T) {
	fsys := fstest.MapFS{"game.lua": {Data: []byte(`Game { title = `)}}
	_, _, err := LoadFS(fsys)
	if errors.GetCode(err) != errors.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if !strings.Contains(err.Error(), "game.lua") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoadFS_SandboxEnforced(t *testing.T) {
	for _, src := range []string{
		`dofile("/etc/passwd")`,
		`require("os")`,
		`os.exit(1)`,
		`io.write("x")`,
		`math.random()`,
	} {
		fsys := fstest.MapFS{"game.lua": {Data: []byte(src)}}
		if _, _, err := LoadFS(fsys); err == nil {
			t.Errorf("expected %q to fail in the sandbox", src)
		}
	}
}

func TestLoadFS_ValidationError(t *testing.T) {
	fsys := fstest.MapFS{
		"game.lua": {Data: []byte(minimalLua)},
		"monsters.lua": {Data: []byte(`
Monster "rat" { name = "Rat", hp = 10, loot = { Drop("cheese", 0.5) } }
`)},
	}
	_, _, err := LoadFS(fsys)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if errors.GetCode(err) != errors.CodeInvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", errors.GetCode(err))
	}
	var ve *ValidationError
	if !stderrors.As(err, &ve) {
		t.Fatalf("expected a *ValidationError in the chain, got %T", err)
	}
	assertContains(t, ve.Errors, `unknown item "cheese"`)
}

func TestLoadFS_WarningsReturned(t *testing.T) {
	fsys := fstest.MapFS{"game.lua": {Data: []byte(minimalLua)}}
	cat, warnings, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if cat == nil {
		t.Fatal("catalog should be returned alongside warnings")
	}
	assertContains(t, warnings, "no wild monsters")
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"zeta.lua", "game.lua", "alpha.lua"})
	want := "game.lua,alpha.lua,zeta.lua"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}
