package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/everforgeworks/healing-clicker/internal/game"
	"github.com/everforgeworks/healing-clicker/internal/save"
	"github.com/everforgeworks/healing-clicker/internal/ui"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusWithoutSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	out, err := run(t, "status", "--save", path)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "no save found") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusAndReset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	store, err := save.OpenSQLite(ctx, path, "")
	if err != nil {
		t.Fatal(err)
	}
	m := save.NewManager(store)
	s := game.NewSession(game.DefaultBalance(), game.NewRand(1), m)
	s.Player.AddPoints(1234)
	s.OnClick(game.Point{})
	if !s.Save(ctx) {
		t.Fatal("save failed")
	}
	m.Close()

	out, err := run(t, "status", "--store", "sqlite", "--save", path)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{ui.IconCoin + " Points:", "1,345", "Gentle Pat", "Hana", ui.IconSparkle + " First Touch"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "reset", "--store", "sqlite", "--save", path); err == nil {
		t.Error("reset without --yes succeeded")
	}
	if _, err := run(t, "reset", "--yes", "--store", "sqlite", "--save", path); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out, err = run(t, "status", "--store", "sqlite", "--save", path)
	if err != nil || !strings.Contains(out, "no save found") {
		t.Errorf("after reset: %q, %v", out, err)
	}
}

func TestUnknownStore(t *testing.T) {
	if _, err := run(t, "status", "--store", "tape"); err == nil || !strings.Contains(err.Error(), "tape") {
		t.Errorf("err = %v, want unknown store", err)
	}
}

func TestBadBalanceFile(t *testing.T) {
	if _, err := run(t, "status", "--balance", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("status accepted a missing balance file")
	}
}
