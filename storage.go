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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RenderManifest records what a run rendered
type RenderManifest struct {
	Dataset       string    `json:"dataset"`
	Digest        string    `json:"digest"`
	View          string    `json:"view"`
	GeneratedAt   time.Time `json:"generated_at"`
	Bars          int       `json:"bars,omitempty"`
	NormalPoints  int       `json:"normal_points,omitempty"`
	AnomalyPoints int       `json:"anomaly_points,omitempty"`
	Rejected      []string  `json:"rejected,omitempty"`
	Output        string    `json:"output,omitempty"`
	CacheHit      bool      `json:"cache_hit"`
}

// Storage handles persistent storage of manifests and rendered charts
type Storage struct {
	basePath string
	cache    *ChartCache
	logger   *Logger
}

// NewStorage creates a new storage handler with a chart cache for the dataset
func NewStorage(basePath string, dataset string, logger *Logger) (*Storage, error) {
	if err := ValidateDatasetName(dataset); err != nil {
		return nil, &StorageError{
			Operation: "open_storage",
			Path:      basePath,
			Err:       err,
		}
	}

	// Ensure storage directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &StorageError{
			Operation: "create_directory",
			Path:      basePath,
			Err:       err,
		}
	}

	cache, err := NewChartCache(basePath, dataset, logger)
	if err != nil {
		return nil, &StorageError{
			Operation: "initialize_cache",
			Path:      basePath,
			Err:       err,
		}
	}

	// Clean expired cache entries on startup
	if err := cache.CleanExpired(); err != nil {
		logger.Warn("Failed to clean expired chart cache", "error", err)
	}

	logger.Debug("Storage initialized", "path", basePath)

	return &Storage{
		basePath: basePath,
		cache:    cache,
		logger:   logger,
	}, nil
}

// SaveManifest writes a render manifest
func (s *Storage) SaveManifest(manifest *RenderManifest) error {
	filename := fmt.Sprintf("%s_render_%s.json", manifest.Dataset, manifest.GeneratedAt.Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.basePath, filename)

	s.logger.LogStorageOperation("save_manifest", path)

	return s.saveJSON(path, manifest)
}

// LoadLatestManifest loads the most recent manifest for the dataset
func (s *Storage) LoadLatestManifest(dataset string) (*RenderManifest, error) {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_render_*.json", dataset))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &StorageError{
			Operation: "glob_manifest",
			Path:      pattern,
			Err:       err,
		}
	}

	if len(matches) == 0 {
		return nil, nil // No previous render found
	}

	// Timestamps in the filename sort lexically
	latestFile := matches[len(matches)-1]

	s.logger.LogStorageOperation("load_latest_manifest", latestFile)

	var manifest RenderManifest
	if err := s.loadJSON(latestFile, &manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// CachedChart returns a previously rendered chart image
func (s *Storage) CachedChart(key string) (string, bool) {
	return s.cache.Get(key)
}

// CacheChart stores a rendered chart image
func (s *Storage) CacheChart(key string, mode ViewMode, image string, ttl time.Duration) error {
	return s.cache.Put(key, mode, image, ttl)
}

// ClearCache clears all cached charts for the dataset
func (s *Storage) ClearCache() error {
	return s.cache.Clear()
}

// saveJSON saves data as JSON to a file
func (s *Storage) saveJSON(path string, data interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return &StorageError{
			Operation: "create_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return &StorageError{
			Operation: "encode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}

// loadJSON loads data from a JSON file
func (s *Storage) loadJSON(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return &StorageError{
			Operation: "open_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return &StorageError{
			Operation: "decode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}

// Close closes all storage resources
func (s *Storage) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
