package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const (
	PolicyExposed     = "exposed"
	PolicyLegacyShell = "legacy-shell"
	// PolicyFixed gives every solid cell the face indices listed in Faces.
	PolicyFixed       = "fixed"
)

// Settings drives one mesh generation run.
type Settings struct {
	GridSize       [3]int32   `json:"grid_size"`
	ChunkOffset    [3]float32 `json:"chunk_offset"`
	Policy         string     `json:"policy"`
	Faces          []int      `json:"faces"`
	Workers        int        `json:"workers"`
	SchematicPath  string     `json:"schematic_path"`
	MapPath        string     `json:"map_path"`
	SaveMapPath    string     `json:"save_map_path"`
	OutputPath     string     `json:"output_path"`
	CachePath      string     `json:"cache_path"`
	LogLevel       string     `json:"log_level"`
	RayOrigin      [3]float32 `json:"ray_origin"`
	RayDirection   [3]float32 `json:"ray_direction"`
	RayMaxDistance float32    `json:"ray_max_distance"`
}

// Default matches the first demo world: a solid 17x17x17 block lowered by
// 16 so its top sits at y=0.5, hit by a short ray from above.
func Default() *Settings {
	return &Settings{
		GridSize:       [3]int32{17, 17, 17},
		ChunkOffset:    [3]float32{0, -16, 0},
		Policy:         PolicyExposed,
		Workers:        1,
		OutputPath:     "chunk.glb",
		LogLevel:       "info",
		RayOrigin:      [3]float32{0, 3, 0},
		RayDirection:   [3]float32{0, -1, 0},
		RayMaxDistance: 4,
	}
}

// LoadSettings reads a JSON file on top of the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	settings := Default()
	if err = json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err = settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) Validate() error {
	if s.SchematicPath != "" && s.MapPath != "" {
		return errors.New("schematic_path and map_path are mutually exclusive")
	}
	if s.SchematicPath == "" && s.MapPath == "" {
		for axis, extent := range s.GridSize {
			if extent <= 0 {
				return errors.Errorf("grid_size[%d] must be positive, got %d", axis, extent)
			}
		}
	}
	if s.Policy != PolicyExposed && s.Policy != PolicyLegacyShell && s.Policy != PolicyFixed {
		return errors.Errorf("unknown policy %q", s.Policy)
	}
	if s.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.OutputPath == "" {
		return errors.New("output path is required")
	}
	if s.RayMaxDistance < 0 {
		return errors.Errorf("ray_max_distance cannot be negative, got %v", s.RayMaxDistance)
	}
	return nil
}
