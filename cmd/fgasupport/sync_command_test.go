package main

import (
	"os"
	"path/filepath"
	"testing"

	"fgasupport/internal/catalog"
	"fgasupport/internal/testsupport"
)

func TestSyncRendersAndPublishes(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRepo())

	out, _, err := runCLI(t, []string{"sync", "--publish"}, env.configPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "Servant")
	requireContains(t, out, "Craft Essence")
	requireContains(t, out, "Published:")
	requireContains(t, out, "Run log:")

	sp := env.cfg.KindPaths(catalog.KindServant)
	for _, path := range []string{
		filepath.Join(sp.OutputDir, "0001", "support.png"),
		filepath.Join(sp.RepoDir, "0001", "support.png"),
		filepath.Join(sp.RepoDir, "0001", "Mash Kyrielight.txt"),
		filepath.Join(env.cfg.KindPaths(catalog.KindCraftEssence).RepoColorDir, "0007", "ce.png"),
		filepath.Join(env.cfg.Paths.LogDir, "app.log"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
}

func TestSyncDryRunSkipsPersistence(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRepo())

	out, _, err := runCLI(t, []string{"sync", "--dry-run", "--publish", "--kind", "servant"}, env.configPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "not persisted")

	sp := env.cfg.KindPaths(catalog.KindServant)
	if _, err := os.Stat(sp.LocalDataFile); !os.IsNotExist(err) {
		t.Fatalf("expected no snapshot after dry run, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(sp.RepoDir, "0001")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing published on dry run, stat err=%v", err)
	}
	if env.server.Hits("/ce.json") != 0 {
		t.Fatal("expected --kind servant to leave the ce catalog alone")
	}
}

func TestSyncFailsWhenCatalogUnavailable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Fail("/servant.json", 404)

	out, _, err := runCLI(t, []string{"sync"}, env.configPath)
	if err == nil {
		t.Fatal("expected sync to fail")
	}
	requireContains(t, out, "failed:")
}

func TestSyncRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"sync", "--kind", "mystic-code"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown kind error")
	}
	requireContains(t, err.Error(), "unknown catalog kind")
}
