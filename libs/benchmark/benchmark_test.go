package benchmark

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBandStatistics(t *testing.T) {
	bands := map[string][]float64{
		"B01": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}

	statistics, err := CalculateBandStatistics(bands)
	assert.NoError(t, err)

	b01 := statistics["B01"]
	assert.InDelta(t, 5.5, b01["mean"], 1e-9)
	assert.Equal(t, 1.0, b01["min"])
	assert.Equal(t, 10.0, b01["max"])
	assert.InDelta(t, 8.25, b01["variance"], 1e-9)
	assert.InDelta(t, 3.25, b01["quantile25"], 1e-9)
	assert.InDelta(t, 5.5, b01["quantile50"], 1e-9)
	assert.InDelta(t, 7.75, b01["quantile75"], 1e-9)
}

func TestCalculateBandStatisticsMatchesReferenceNumerics(t *testing.T) {
	statistics, err := CalculateBandStatistics(map[string][]float64{
		"B01": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})
	assert.NoError(t, err)

	// reference values as the groundtruth tooling computes them
	groundtruth := map[string]BandStatistics{
		"B01": {
			"mean":       5.5,
			"variance":   8.25,
			"min":        1.0,
			"max":        10.0,
			"quantile25": 3.25,
			"quantile50": 5.5,
			"quantile75": 7.75,
		},
	}

	err = CompareBandStatistics(statistics, groundtruth, DefaultTolerance)
	assert.NoError(t, err)
}

func TestCalculateBandStatisticsEmptyBand(t *testing.T) {
	_, err := CalculateBandStatistics(map[string][]float64{"B01": {}})
	assert.Error(t, err)
	assert.ErrorContains(t, err, "no samples")
}

func TestCompareBandStatisticsWithinTolerance(t *testing.T) {
	output := map[string]BandStatistics{
		"B01": {"mean": 100.5, "max": 201.0},
	}
	groundtruth := map[string]BandStatistics{
		"B01": {"mean": 100.0, "max": 200.0},
	}

	err := CompareBandStatistics(output, groundtruth, DefaultTolerance)
	assert.NoError(t, err)
}

func TestCompareBandStatisticsDeviation(t *testing.T) {
	output := map[string]BandStatistics{
		"B01": {"mean": 150.0},
	}
	groundtruth := map[string]BandStatistics{
		"B01": {"mean": 100.0},
	}

	err := CompareBandStatistics(output, groundtruth, DefaultTolerance)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "band 'B01' statistic 'mean'")
}

func TestCompareBandStatisticsIgnoresUnknownBands(t *testing.T) {
	output := map[string]BandStatistics{
		"B01": {"mean": 100.0},
		"B02": {"mean": 999.0},
	}
	groundtruth := map[string]BandStatistics{
		"B01": {"mean": 100.0},
	}

	// bands without reference data only produce a warning
	err := CompareBandStatistics(output, groundtruth, DefaultTolerance)
	assert.NoError(t, err)
}

func TestExtractReferenceBandStatistics(t *testing.T) {
	tempDir := t.TempDir()
	referenceFile := path.Join(tempDir, "groundtruth_regression_test.json")
	content := `[
  {
    "scenario_name": "benchmarking-creo",
    "reference_data": {
      "B01": {"mean": 100.0, "variance": 2.5, "min": 90.0, "max": 110.0}
    }
  }
]`
	err := os.WriteFile(referenceFile, []byte(content), 0644)
	assert.NoError(t, err)

	referenceData, err := ExtractReferenceBandStatistics(referenceFile, "benchmarking-creo")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, referenceData["B01"]["mean"])

	_, err = ExtractReferenceBandStatistics(referenceFile, "unknown-scenario")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "no reference data found for scenario 'unknown-scenario'")
}

func TestExtractTestGeometries(t *testing.T) {
	tempDir := t.TempDir()
	geoDir := path.Join(tempDir, "geofiles")
	err := os.Mkdir(geoDir, 0755)
	assert.NoError(t, err)

	content := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "field"},
      "geometry": {"type": "Point", "coordinates": [5.1, 51.2]}
    }
  ]
}`
	err = os.WriteFile(path.Join(geoDir, "alps.geojson"), []byte(content), 0644)
	assert.NoError(t, err)

	collection, err := ExtractTestGeometries(geoDir, "alps.geojson")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(collection.Features))

	_, err = ExtractTestGeometries(geoDir, "missing.geojson")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "error while reading geometries")
}
