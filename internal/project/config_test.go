package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := &Config{
		Project: ProjectInfo{Name: "demo", Language: "zh"},
		Parser:  ParserConfig{ShortOpenTags: true},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Project.Name != "demo" || loaded.Project.Language != "zh" {
		t.Errorf("project info mismatch: %+v", loaded.Project)
	}
	if !loaded.Parser.ShortOpenTags {
		t.Error("short_open_tags lost in round trip")
	}
}

func TestConfigLoadToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	content := "[project]\nname = \"site\"\nlanguage = \"en\"\n\n[parser]\nshort_open_tags = true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "site" || !cfg.Parser.ShortOpenTags {
		t.Errorf("config mismatch: %+v", cfg)
	}
}

func TestConfigDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Parser.ShortOpenTags = true
	if err := cfg.Save(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found == nil || !found.Parser.ShortOpenTags {
		t.Errorf("Discover did not walk up to the config: %+v", found)
	}
}

func TestConfigDiscoverMissing(t *testing.T) {
	found, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil config, got %+v", found)
	}
}
