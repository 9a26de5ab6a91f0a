package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	settings := Default()
	if err := settings.Validate(); err != nil {
		t.Fatal(err)
	}
	if settings.GridSize != [3]int32{17, 17, 17} || settings.ChunkOffset != [3]float32{0, -16, 0} {
		t.Errorf("unexpected defaults %+v", settings)
	}
}

func TestLoadSettingsOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{"grid_size": [4, 5, 6], "policy": "legacy-shell", "workers": 3}`)
	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if settings.GridSize != [3]int32{4, 5, 6} || settings.Policy != PolicyLegacyShell || settings.Workers != 3 {
		t.Errorf("overrides not applied: %+v", settings)
	}
	if settings.RayMaxDistance != 4 || settings.OutputPath != "chunk.glb" {
		t.Errorf("defaults lost: %+v", settings)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":  `{"grid_size": [1, 2`,
		"size":    `{"grid_size": [0, 1, 1]}`,
		"policy":  `{"policy": "greedy"}`,
		"workers": `{"workers": 0}`,
		"ray":     `{"ray_max_distance": -1}`,
	}
	for name, content := range cases {
		if _, err := LoadSettings(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestSchematicSkipsGridSize(t *testing.T) {
	settings := Default()
	settings.GridSize = [3]int32{}
	settings.SchematicPath = "world.schematic"
	if err := settings.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestVolumeSources(t *testing.T) {
	path := writeConfig(t, `{"map_path": "world.bin", "grid_size": [0, 0, 0], "policy": "fixed", "faces": [0, 2]}`)
	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if settings.MapPath != "world.bin" || len(settings.Faces) != 2 {
		t.Errorf("fields not loaded: %+v", settings)
	}
	settings.SchematicPath = "world.schematic"
	if err = settings.Validate(); err == nil {
		t.Error("schematic and map accepted together")
	}
}
