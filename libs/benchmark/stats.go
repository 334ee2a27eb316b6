package benchmark

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// DefaultTolerance is the relative tolerance used when comparing band
// statistics against groundtruth.
const DefaultTolerance = 0.01

// BandStatistics maps a statistic name ("mean", "variance", ...) to its
// value for a single band.
type BandStatistics map[string]float64

// CalculateBandStatistics computes the statistics for each band of an output
// cube: mean, variance, min, max and the 25/50/75 quantiles.
func CalculateBandStatistics(bands map[string][]float64) (map[string]BandStatistics, error) {
	statistics := make(map[string]BandStatistics, len(bands))

	for bandName, samples := range bands {
		if len(samples) == 0 {
			return nil, fmt.Errorf("band '%s' has no samples", bandName)
		}

		sorted := make([]float64, len(samples))
		copy(sorted, samples)
		sort.Float64s(sorted)

		// The groundtruth files carry the population variance and
		// linearly interpolated quantiles, so compute the same here.
		mean := stat.Mean(sorted, nil)
		statistics[bandName] = BandStatistics{
			"mean":       mean,
			"variance":   stat.MomentAbout(2, sorted, mean, nil),
			"min":        sorted[0],
			"max":        sorted[len(sorted)-1],
			"quantile25": linearQuantile(0.25, sorted),
			"quantile50": linearQuantile(0.50, sorted),
			"quantile75": linearQuantile(0.75, sorted),
		}
	}

	return statistics, nil
}

// CompareBandStatistics checks the output statistics of every band against
// the groundtruth within a relative tolerance. Bands or statistics missing
// on either side are reported as warnings, deviations as a single error
// listing every offending statistic.
func CompareBandStatistics(output map[string]BandStatistics, groundtruth map[string]BandStatistics, tolerance float64) error {
	var deviations []string

	for _, bandName := range sortedBandNames(output) {
		outputStats := output[bandName]
		groundtruthStats, ok := groundtruth[bandName]
		if !ok {
			slog.Warn("band not found in reference", "band", bandName)
			continue
		}

		for _, statName := range sortedStatNames(groundtruthStats) {
			groundtruthValue := groundtruthStats[statName]
			outputValue, ok := outputStats[statName]
			if !ok {
				slog.Warn("statistic not found for band in output", "statistic", statName, "band", bandName)
				continue
			}

			if !withinRelativeTolerance(outputValue, groundtruthValue, tolerance) {
				deviations = append(deviations, fmt.Sprintf(
					"band '%s' statistic '%s': got %v, expected %v (rel tolerance %v)",
					bandName, statName, outputValue, groundtruthValue, tolerance))
			}
		}
	}

	if len(deviations) > 0 {
		return fmt.Errorf("band statistics deviate from reference:\n%s", strings.Join(deviations, "\n"))
	}
	return nil
}

// linearQuantile interpolates linearly between the adjacent order
// statistics at rank (n-1)*p.
func linearQuantile(p float64, sorted []float64) float64 {
	rank := p * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	if lower == len(sorted)-1 {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

func withinRelativeTolerance(actual float64, expected float64, tolerance float64) bool {
	return math.Abs(actual-expected) <= tolerance*math.Abs(expected)
}

func sortedBandNames(bands map[string]BandStatistics) []string {
	names := make([]string, 0, len(bands))
	for name := range bands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedStatNames(stats BandStatistics) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
