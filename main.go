package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/memmaker/cubemesh/config"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/pkg/errors"
)

func main() {
	configFile := flag.String("config", "", "JSON settings file")
	schematicFile := flag.String("schematic", "", "gzip compressed .schematic to mesh instead of a solid block")
	mapFile := flag.String("map", "", "map file written by -save-map to mesh instead of a solid block")
	saveMapFile := flag.String("save-map", "", "write the loaded volume as a map file")
	outputFile := flag.String("out", "", "glb output path, - for stdout")
	cacheDir := flag.String("cache", "", "LevelDB directory for cached meshes")
	workers := flag.Int("workers", 0, "assembly workers")
	policy := flag.String("policy", "", "face policy: exposed, legacy-shell or fixed")
	faces := flag.String("faces", "", "comma separated face indices for the fixed policy, 0=top .. 5=front")
	logLevel := flag.String("log", "", "log level: error, warning, info or debug")
	flag.Parse()

	settings := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadSettings(*configFile)
		if err != nil {
			util.LogSystemError("%v", err)
			os.Exit(1)
		}
		settings = loaded
	}
	// flags win over the file
	if *schematicFile != "" {
		settings.SchematicPath = *schematicFile
	}
	if *mapFile != "" {
		settings.MapPath = *mapFile
	}
	if *saveMapFile != "" {
		settings.SaveMapPath = *saveMapFile
	}
	if *outputFile != "" {
		settings.OutputPath = *outputFile
	}
	if *cacheDir != "" {
		settings.CachePath = *cacheDir
	}
	if *workers > 0 {
		settings.Workers = *workers
	}
	if *policy != "" {
		settings.Policy = *policy
	}
	if *faces != "" {
		indices, err := parseIndexList(*faces)
		if err != nil {
			util.LogSystemError("%v", err)
			os.Exit(2)
		}
		settings.Faces = indices
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}

	if err := settings.Validate(); err != nil {
		util.LogSystemError("%v", err)
		os.Exit(2)
	}
	if err := runMesher(settings); err != nil {
		util.LogSystemError("%+v", err)
		os.Exit(1)
	}
}

func parseIndexList(list string) ([]int, error) {
	var indices []int
	for _, field := range strings.Split(list, ",") {
		index, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "face index %q", field)
		}
		indices = append(indices, index)
	}
	return indices, nil
}
