// Command detect runs anomaly detection over a recorded NDJSON reading
// stream, writing alerts as NDJSON and printing a summary.
//
// Usage:
//
//	simd > readings.ndjson
//	go run ./cmd/detect -input readings.ndjson -output alerts.ndjson
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/enviro-sensor-sim/internal/adapter/ndjson"
	"github.com/couchcryptid/enviro-sensor-sim/internal/anomaly"
	"github.com/couchcryptid/enviro-sensor-sim/internal/domain"
)

func main() {
	input := flag.String("input", "-", "readings NDJSON path, - for stdin")
	output := flag.String("output", "-", "alerts NDJSON path, - for stdout")
	windowSize := flag.Int("window", anomaly.DefaultWindowSize, "z-score rolling window size per sensor")
	zThreshold := flag.Float64("z-threshold", anomaly.DefaultZThreshold, "absolute z-score alert threshold")
	noSummary := flag.Bool("no-summary", false, "suppress the summary report on stderr")
	flag.Parse()

	if code := run(*input, *output, *windowSize, *zThreshold, *noSummary); code != 0 {
		os.Exit(code)
	}
}

func run(input, output string, windowSize int, zThreshold float64, noSummary bool) int {
	in, err := openInput(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		return 1
	}
	defer in.Close()

	out, err := openOutput(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	manager := anomaly.NewManager(logger,
		anomaly.NewRuleDetector(anomaly.DefaultRules()),
		anomaly.NewZScoreDetector(windowSize, zThreshold),
	)

	ctx := context.Background()
	scanner := ndjson.NewReadingScanner(in)

	var all []domain.Alert
	var readings int
	for {
		r, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "detect: %v\n", err)
			return 1
		}
		readings++

		alerts := manager.Process(r)
		if len(alerts) == 0 {
			continue
		}
		if err := out.PublishAlerts(ctx, alerts); err != nil {
			fmt.Fprintf(os.Stderr, "detect: %v\n", err)
			return 1
		}
		all = append(all, alerts...)
	}

	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "detect: %v\n", err)
		return 1
	}

	if !noSummary {
		fmt.Fprintf(os.Stderr, "readings: %d\n%s", readings, anomaly.Summarize(all))
	}
	return 0
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (*ndjson.Writer, error) {
	if path == "-" {
		return ndjson.NewWriter(os.Stdout), nil
	}
	return ndjson.OpenFile(path)
}
