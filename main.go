// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "", "Path to configuration file (default: built-in defaults)")
	datasetPath := flag.String("dataset", "", "Path to dataset file (overrides config)")
	viewName := flag.String("view", "", "View to render: geographic or scatter (overrides config)")
	outputPath := flag.String("output", "", "Output file for report (default: stdout)")
	htmlOutput := flag.Bool("html", false, "Generate HTML report instead of Markdown")
	seed := flag.Uint64("seed", 0, "Seed for the synthetic normal population (overrides config)")
	noCache := flag.Bool("no-cache", false, "Render charts without reading or writing the chart cache")
	clearCache := flag.Bool("clear-cache", false, "Clear cached charts for the dataset before rendering")
	jsonLogs := flag.Bool("json-logs", false, "Emit logs as JSON")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("anomviz %s\n", GetVersion())
		os.Exit(0)
	}

	// Initialize logger
	makeLogger := NewLogger
	if *jsonLogs {
		makeLogger = NewJSONLogger
	}
	logger := makeLogger(*debug)
	logger.Info("Starting anomviz", "version", GetVersion())

	// Load configuration
	logger.Info("Loading configuration", "config_file", *configPath)
	config, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override with command-line flags
	if *datasetPath != "" {
		config.DatasetPath = *datasetPath
	}
	if *viewName != "" {
		config.DefaultView = *viewName
	}
	if *seed != 0 {
		config.SyntheticSeed = *seed
	}
	if *debug || config.Debug {
		config.Debug = true
		// Recreate logger with debug enabled
		logger = makeLogger(true)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	mode, err := config.View()
	if err != nil {
		logger.Error("Invalid default view", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded successfully")

	// Load and validate the dataset at the ingestion boundary
	logger.Info("Loading dataset", "path", config.DatasetPath)
	dataset, err := LoadDataset(config.DatasetPath)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	config.ApplySyntheticOverrides(dataset)
	logger = logger.WithDataset(dataset.Name)

	// Initialize storage
	var storage *Storage
	if !*noCache {
		logger.Info("Initializing storage", "path", config.StoragePath)
		storage, err = NewStorage(config.StoragePath, dataset.Name, logger)
		if err != nil {
			logger.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		defer storage.Close()

		if *clearCache {
			if err := storage.ClearCache(); err != nil {
				logger.Warn("Failed to clear chart cache", "error", err)
			}
		}
	}

	// Render the requested view
	dashboard := NewDashboard(config, storage, logger)
	if err := dashboard.Load(dataset, mode); err != nil {
		logger.Error("Failed to render view", "view", mode.String(), "error", err)
		exit(storage, 1)
	}

	// Generate report (HTML or Markdown)
	if *htmlOutput {
		logger.Info("Generating HTML report")
		htmlReporter := NewHTMLReporter(logger)
		if err := htmlReporter.GenerateHTMLReport(dashboard, *outputPath); err != nil {
			logger.Error("Failed to generate HTML report", "error", err)
			exit(storage, 1)
		}
	} else {
		logger.Info("Generating Markdown report")
		reporter := NewReporter(logger)
		if err := reporter.GenerateReport(dashboard, *outputPath); err != nil {
			logger.Error("Failed to generate report", "error", err)
			exit(storage, 1)
		}
	}

	// Save render manifest
	if storage != nil {
		manifest := dashboard.Manifest()
		manifest.GeneratedAt = time.Now()
		manifest.Output = *outputPath
		if previous, err := storage.LoadLatestManifest(dataset.Name); err != nil {
			logger.Warn("Failed to load previous render manifest", "error", err)
		} else if previous != nil {
			logger.Info("Previous render found",
				"generated_at", previous.GeneratedAt,
				"view", previous.View,
				"dataset_changed", previous.Digest != manifest.Digest,
			)
		}
		if err := storage.SaveManifest(manifest); err != nil {
			logger.Warn("Failed to save render manifest", "error", err)
		}
	}

	logger.Info("Rendering completed successfully", "view", dashboard.Mode().String())
}

// exit flushes storage before terminating, since deferred calls do not run on os.Exit
func exit(storage *Storage, code int) {
	if storage != nil {
		storage.Close()
	}
	os.Exit(code)
}
