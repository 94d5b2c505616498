package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/clearwatch/internal/readings"
	"github.com/chrissnell/clearwatch/pkg/detect"
	"github.com/chrissnell/clearwatch/pkg/solar"
)

func main() {
	var (
		dbPath     = flag.String("db", "readings.db", "Path to the SQLite readings database")
		station    = flag.String("station", "", "Station name to analyze")
		latitude   = flag.Float64("lat", 0, "Station latitude in degrees (north positive)")
		longitude  = flag.Float64("lon", 0, "Station longitude in degrees (east positive)")
		altitude   = flag.Float64("alt", 0, "Station altitude in meters")
		turbidity  = flag.Float64("turbidity", 0, "Linke turbidity factor (0 = clear-sky default)")
		window     = flag.Int("window", 10, "Rolling window length in samples")
		thresholds = flag.String("thresholds", "-75:75,-75:75,-20:20,-0.1:0.1,-60:60",
			"Five criterion threshold ranges as lo:hi pairs, in order:\n\t\t\tmean, max, line length, sigma, max slope deviation")
		hours     = flag.Int("hours", 24, "Number of hours of data to analyze, ending now")
		workers   = flag.Int("workers", 1, "Worker goroutines for the scan (1 = sequential)")
		csvOutput = flag.String("csv", "", "Optional CSV output file path for per-sample results")
	)
	flag.Parse()

	if *station == "" {
		fmt.Fprintf(os.Stderr, "Error: -station is required\n")
		os.Exit(1)
	}

	thresholdSet, err := parseThresholds(*thresholds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -thresholds: %v\n", err)
		os.Exit(1)
	}

	store, err := readings.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening readings database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	to := time.Now().UTC()
	from := to.Add(-time.Duration(*hours) * time.Hour)

	observed, err := store.LoadGHI(ctx, *station, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading readings: %v\n", err)
		os.Exit(1)
	}
	if len(observed) < *window {
		fmt.Fprintf(os.Stderr, "Error: only %d readings in the last %d hours, need at least %d for the window\n",
			len(observed), *hours, *window)
		os.Exit(1)
	}

	interval := readings.Interval(observed)
	model := solar.Model{
		Latitude:  *latitude,
		Longitude: *longitude,
		Altitude:  *altitude,
		Turbidity: *turbidity,
	}

	measured := readings.Values(observed)
	predicted := model.Series(observed[0].Time, interval, len(observed))

	var mask []bool
	if *workers > 1 {
		mask, err = detect.ClearPointsParallel(ctx, measured, predicted, thresholdSet, *window, *workers)
	} else {
		mask, err = detect.ClearPoints(ctx, measured, predicted, thresholdSet, *window)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running detection: %v\n", err)
		os.Exit(1)
	}

	displayReport(*station, observed, predicted, mask, interval, *window)

	if *csvOutput != "" {
		if err := writeCSV(*csvOutput, observed, predicted, mask); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nPer-sample results written to %s\n", *csvOutput)
	}
}

// parseThresholds parses five comma-separated lo:hi pairs.
func parseThresholds(s string) (detect.Thresholds, error) {
	pairs := strings.Split(s, ",")
	thresholds := make(detect.Thresholds, 0, len(pairs))

	for _, pair := range pairs {
		bounds := strings.Split(strings.TrimSpace(pair), ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("threshold %q is not a lo:hi pair", pair)
		}
		lo, err := strconv.ParseFloat(bounds[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lower bound in %q: %w", pair, err)
		}
		hi, err := strconv.ParseFloat(bounds[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad upper bound in %q: %w", pair, err)
		}
		thresholds = append(thresholds, detect.Range{lo, hi})
	}

	return thresholds, nil
}

func displayReport(station string, observed []readings.Reading, predicted []float64, mask []bool, interval time.Duration, window int) {
	measured := readings.Values(observed)

	clearCount := 0
	longestRun := 0
	run := 0
	for _, clear := range mask {
		if clear {
			clearCount++
			run++
			if run > longestRun {
				longestRun = run
			}
		} else {
			run = 0
		}
	}

	fmt.Printf("Clear-Sky Detection Report\n")
	fmt.Printf("==========================\n\n")
	fmt.Printf("Station:          %s\n", station)
	fmt.Printf("Period:           %s to %s\n",
		observed[0].Time.Format(time.RFC3339),
		observed[len(observed)-1].Time.Format(time.RFC3339))
	fmt.Printf("Samples:          %d (every %s)\n", len(observed), interval)
	fmt.Printf("Window length:    %d samples\n\n", window)
	fmt.Printf("Clear samples:    %d (%.1f%%)\n", clearCount, 100*float64(clearCount)/float64(len(mask)))
	fmt.Printf("Longest run:      %d samples (%s)\n", longestRun, time.Duration(longestRun)*interval)
	fmt.Printf("Model RMSE:       %.2f W/m²\n", detect.RMSE(measured, predicted))
}

func writeCSV(path string, observed []readings.Reading, predicted []float64, mask []bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "measured_ghi", "predicted_ghi", "clear"}); err != nil {
		return err
	}
	for i, r := range observed {
		record := []string{
			r.Time.Format(time.RFC3339),
			strconv.FormatFloat(r.GHI, 'f', 2, 64),
			strconv.FormatFloat(predicted[i], 'f', 2, 64),
			strconv.FormatBool(mask[i]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
