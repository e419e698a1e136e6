package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fgasupport/internal/config"
	"fgasupport/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	server     *testsupport.AssetServer
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("SERVANT_URL", "")
	t.Setenv("CE_URL", "")

	server := testsupport.NewAssetServer(t)
	face := testsupport.PNGBytes(t, 256, 256)
	server.Set("/faces/1/1.png", face)
	server.Set("/faces/1/2.png", face)
	server.Set("/faces/ce/7.png", testsupport.PNGBytes(t, 128, 128))
	server.Set("/servant.json", []byte(fmt.Sprintf(`[
	  {"collectionNo": 1, "name": "Mash Kyrielight", "type": "heroine", "className": "shielder", "rarity": 3,
	   "extraAssets": {"faces": {"ascension": {"1": "%[1]s/faces/1/1.png", "2": "%[1]s/faces/1/2.png"}}}}
	]`, server.URL)))
	server.Set("/ce.json", []byte(fmt.Sprintf(`[
	  {"collectionNo": 7, "name": "Heaven's Feel", "type": "normal", "rarity": 4,
	   "extraAssets": {"faces": {"equip": {"7": "%s/faces/ce/7.png"}}}}
	]`, server.URL)))

	opts = append([]testsupport.ConfigOption{
		testsupport.WithSources(server.URL+"/servant.json", server.URL+"/ce.json"),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "fgasupport", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		server:     server,
		configPath: configPath,
		homeDir:    homeDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
