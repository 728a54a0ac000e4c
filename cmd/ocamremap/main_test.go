package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// useConfigFile points the loader at path for the duration of the test
func useConfigFile(t *testing.T, path string) {
	t.Helper()
	old := ConfigFileName
	ConfigFileName = path
	t.Cleanup(func() {
		ConfigFileName = old
		setupconfig()
	})
}

func TestGenerateWritesAllTables(t *testing.T) {
	cfg := defaults()
	cfg.OutputDir = filepath.Join(t.TempDir(), "maps")
	tables, err := generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected tables for two modes, got %d", len(tables))
	}
	for _, name := range []string{"ocam2kpixi_1_REV", "ocam2kpixi_1", "ocam2kpixi_3_REV", "ocam2kpixi_3"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name+".fits")); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if err := check(cfg); err != nil {
		t.Errorf("check of freshly written tables failed: %v", err)
	}
}

func TestGenerateSingleMode(t *testing.T) {
	cfg := defaults()
	cfg.OutputDir = t.TempDir()
	cfg.Modes = []string{"3"}
	tables, err := generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0].Reverse.Rows != 120 {
		t.Errorf("expected one binned table of height 120, got %+v", len(tables))
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "ocam2kpixi_1.fits")); !os.IsNotExist(err) {
		t.Error("expected full mode tables not to be written")
	}
}

func TestGenerateUnknownMode(t *testing.T) {
	cfg := defaults()
	cfg.OutputDir = t.TempDir()
	cfg.Modes = []string{"full", "quad"}
	if _, err := generate(cfg); err == nil {
		t.Error("expected unknown mode to fail")
	}
	cfg.Modes = nil
	if _, err := generate(cfg); err == nil {
		t.Error("expected empty mode list to fail")
	}
}

func TestCheckMissingTables(t *testing.T) {
	cfg := defaults()
	cfg.OutputDir = t.TempDir()
	if err := check(cfg); err == nil {
		t.Error("expected check of an empty folder to fail")
	}
}

func TestConfigDefaults(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.yml"))
	setupconfig()
	c := loadconfig()
	if c.OutputDir != "." || !c.Verify || len(c.Modes) != 2 {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestConfigEnvOverlay(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.yml"))
	out := filepath.Join(t.TempDir(), "env-maps")
	t.Setenv("OCAMREMAP_OUTPUTDIR", out)
	t.Setenv("OCAMREMAP_VERIFY", "false")
	t.Setenv("OCAMREMAP_MODES", "binned, full")
	setupconfig()
	c := loadconfig()
	expected := config{OutputDir: out, Modes: []string{"binned", "full"}, Verify: false}
	if diff := cmp.Diff(expected, c); diff != "" {
		t.Errorf("environment not applied (-want +got):\n%s", diff)
	}
	tables, err := generate(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 || tables[0].Mode.Name != "binned" || tables[1].Mode.Name != "full" {
		t.Errorf("expected binned then full tables, got %d tables", len(tables))
	}
}

func TestConfigEnvSingleMode(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("OCAMREMAP_MODES", "1")
	setupconfig()
	c := loadconfig()
	if diff := cmp.Diff([]string{"1"}, c.Modes); diff != "" {
		t.Errorf("unexpected modes (-want +got):\n%s", diff)
	}
	if c.OutputDir != "." || !c.Verify {
		t.Errorf("expected other keys to keep their defaults, got %+v", c)
	}
}

func TestConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "ocamremap.yml")
	out := filepath.Join(dir, "yaml-maps")
	body := "OutputDir: " + out + "\nModes:\n  - binned\nVerify: false\n"
	if err := os.WriteFile(fn, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	useConfigFile(t, fn)
	setupconfig()
	c := loadconfig()
	expected := config{OutputDir: out, Modes: []string{"binned"}, Verify: false}
	if diff := cmp.Diff(expected, c); diff != "" {
		t.Errorf("config file not applied (-want +got):\n%s", diff)
	}
}

func TestConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "ocamremap.yml")
	if err := os.WriteFile(fn, []byte("Modes:\n  - binned\n"), 0644); err != nil {
		t.Fatal(err)
	}
	useConfigFile(t, fn)
	t.Setenv("OCAMREMAP_MODES", "full,binned")
	setupconfig()
	c := loadconfig()
	if diff := cmp.Diff([]string{"full", "binned"}, c.Modes); diff != "" {
		t.Errorf("expected environment to win over the file (-want +got):\n%s", diff)
	}
}
