// Command mapgen reads generation settings as JSON on stdin and writes the
// generated battlemap as JSON on stdout.
//
// Exit codes: 0 success, 2 validation error, 3 generation error.
//
// Usage:
//
//	echo '{"name":"glade","width":50,"height":50,"seed":"forest-glade"}' | mapgen -pretty
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"tacmap-backend/internal/errors"
	"tacmap-backend/internal/logging"
	"tacmap-backend/internal/mapgen/config"
	"tacmap-backend/internal/mapgen/orchestrator"
	"tacmap-backend/internal/metrics"
)

const (
	exitOK         = 0
	exitValidation = 2
	exitGeneration = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	presetPath := flag.String("preset", "", "YAML preset file with default tuning knobs")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logging.New(os.Stderr)
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	var settings orchestrator.Settings
	decoder := json.NewDecoder(os.Stdin)
	if err := decoder.Decode(&settings); err != nil {
		logger.Error().Err(err).Msg("cannot parse settings")
		return exitValidation
	}

	if *presetPath != "" && settings.Config == nil {
		cfg, err := config.LoadPreset(*presetPath)
		if err != nil {
			logger.Error().Err(err).Str("preset", *presetPath).Msg("cannot load preset")
			return exitValidation
		}
		settings.Config = &cfg
	}

	collector := metrics.NewGenerationCollector(prometheus.DefaultRegisterer)
	svc := orchestrator.NewGeneratorService(
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(collector),
	)

	result, err := svc.Generate(context.Background(), settings)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		if errors.KindOf(err) == errors.KindValidation {
			return exitValidation
		}
		return exitGeneration
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		logger.Error().Err(err).Msg("cannot write map")
		return exitGeneration
	}

	return exitOK
}
