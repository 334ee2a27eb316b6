package benchmark

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// DefaultGeoFilesDir is where scenario geometries are stored within the
// test suite.
const DefaultGeoFilesDir = "geofiles"

// ExtractTestGeometries reads the geometries of a benchmark scenario from a
// GeoJSON file stored within the project.
func ExtractTestGeometries(geoFilesDir string, filename string) (*geojson.FeatureCollection, error) {
	path := filepath.Join(geoFilesDir, filename)
	slog.Info("reading geometries", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("error while reading geometries", "path", path, "error", err)
		return nil, fmt.Errorf("error while reading geometries from %s: %v", path, err)
	}

	geometryCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		slog.Error("error while parsing geometries", "path", path, "error", err)
		return nil, fmt.Errorf("error while parsing geometries from %s: %v", path, err)
	}

	return geometryCollection, nil
}
