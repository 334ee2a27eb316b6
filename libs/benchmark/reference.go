package benchmark

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// DefaultReferenceFile holds the groundtruth statistics of every regression
// scenario, one entry per scenario.
const DefaultReferenceFile = "groundtruth_regression_test.json"

type ScenarioReference struct {
	ScenarioName  string                    `json:"scenario_name"`
	ReferenceData map[string]BandStatistics `json:"reference_data"`
}

// ExtractReferenceBandStatistics loads the reference band statistics for a
// specific scenario from the groundtruth file.
func ExtractReferenceBandStatistics(referenceFile string, scenarioName string) (map[string]BandStatistics, error) {
	slog.Info("extracting reference band statistics", "scenario", scenarioName, "file", referenceFile)

	data, err := os.ReadFile(referenceFile)
	if err != nil {
		return nil, fmt.Errorf("error while reading reference file '%s': %v", referenceFile, err)
	}

	var allReferenceData []ScenarioReference
	if err := json.Unmarshal(data, &allReferenceData); err != nil {
		return nil, fmt.Errorf("error while parsing reference file '%s': %v", referenceFile, err)
	}

	for _, scenarioData := range allReferenceData {
		if scenarioData.ScenarioName == scenarioName {
			return scenarioData.ReferenceData, nil
		}
	}

	return nil, fmt.Errorf("no reference data found for scenario '%s' in file '%s'", scenarioName, referenceFile)
}
