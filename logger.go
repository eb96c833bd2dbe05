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
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with domain-specific methods
type Logger struct {
	*slog.Logger
}

// NewLogger creates a text-formatted logger
func NewLogger(debug bool) *Logger {
	return newLogger(os.Stderr, debug, false)
}

// NewJSONLogger creates a JSON-formatted logger
func NewJSONLogger(debug bool) *Logger {
	return newLogger(os.Stderr, debug, true)
}

func newLogger(w io.Writer, debug, json bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{slog.New(handler)}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.With("component", component)}
}

// WithDataset adds a dataset name field to the logger
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{l.With("dataset", name)}
}

// LogDatasetLoaded logs a successfully ingested dataset
func (l *Logger) LogDatasetLoaded(name string, districts, samples int) {
	l.Info("Dataset loaded",
		"dataset", name,
		"districts", districts,
		"samples", samples,
	)
}

// LogViewSelected logs a view transition
func (l *Logger) LogViewSelected(from, to ViewMode) {
	l.Debug("View selected",
		"from", from.String(),
		"to", to.String(),
	)
}

// LogRenderStage logs chart rendering progress
func (l *Logger) LogRenderStage(view ViewMode, stage string, items int) {
	l.Info("Render stage completed",
		"view", view.String(),
		"stage", stage,
		"items", items,
	)
}

// LogRejectedItem logs an item dropped from a chart because it violates an invariant
func (l *Logger) LogRejectedItem(view ViewMode, item string, err error) {
	l.Warn("Item rejected from chart",
		"view", view.String(),
		"item", item,
		"error", err,
	)
}

// LogStorageOperation logs storage operations
func (l *Logger) LogStorageOperation(operation, path string) {
	l.Debug("Storage operation",
		"operation", operation,
		"path", path,
	)
}
