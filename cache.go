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
	"sync"
	"time"
)

// ChartCacheEntry is one rendered chart image with its expiry
type ChartCacheEntry struct {
	Image     string    `json:"image"` // base64 PNG
	View      string    `json:"view"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// chartCacheStore holds all cache entries for a dataset
type chartCacheStore struct {
	Entries map[string]*ChartCacheEntry `json:"entries"`
}

// ChartCache keeps rendered chart images on disk, one file per dataset
type ChartCache struct {
	filePath string
	dataset  string
	store    *chartCacheStore
	mutex    sync.RWMutex
	logger   *Logger
	now      func() time.Time
}

// ChartRenderKey lists every input that ends up painted into a chart image.
// Two renders with equal keys produce the same PNG.
type ChartRenderKey struct {
	Digest   string
	View     ViewMode
	Width    int
	Height   int
	Theme    string
	Currency string
	Title    string
}

// String encodes the key for the cache file; the free-text title goes last
func (k ChartRenderKey) String() string {
	return fmt.Sprintf("%s:%s:%dx%d:%s:%s:%s", k.Digest, k.View, k.Width, k.Height, k.Theme, k.Currency, k.Title)
}

// NewChartCache opens (or starts) the cache file for a dataset
func NewChartCache(basePath string, dataset string, logger *Logger) (*ChartCache, error) {
	cacheFile := filepath.Join(basePath, fmt.Sprintf("charts_%s.json", dataset))

	cache := &ChartCache{
		filePath: cacheFile,
		dataset:  dataset,
		store:    &chartCacheStore{Entries: make(map[string]*ChartCacheEntry)},
		logger:   logger,
		now:      time.Now,
	}

	if err := cache.load(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to load chart cache, starting fresh", "error", err)
		}
	}

	logger.Debug("Chart cache initialized", "path", cacheFile, "dataset", dataset, "entries", len(cache.store.Entries))

	return cache, nil
}

// Put stores a rendered image for ttl
func (c *ChartCache) Put(key string, mode ViewMode, image string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.store.Entries[key] = &ChartCacheEntry{
		Image:     image,
		View:      mode.String(),
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := c.save(); err != nil {
		return err
	}

	c.logger.Debug("Chart cached", "dataset", c.dataset, "key", key, "ttl", ttl)
	return nil
}

// Get returns a cached image if present and not expired
func (c *ChartCache) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.store.Entries[key]
	if !exists {
		c.logger.Debug("Chart cache miss", "dataset", c.dataset, "key", key)
		return "", false
	}

	if c.now().After(entry.ExpiresAt) {
		c.logger.Debug("Chart cache expired", "dataset", c.dataset, "key", key)
		return "", false
	}

	c.logger.Debug("Chart cache hit", "dataset", c.dataset, "key", key)
	return entry.Image, true
}

// CleanExpired removes all expired entries
func (c *ChartCache) CleanExpired() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cleanExpired()
}

// cleanExpired removes expired entries (must be called with lock held)
func (c *ChartCache) cleanExpired() error {
	now := c.now()
	removed := 0

	for key, entry := range c.store.Entries {
		if now.After(entry.ExpiresAt) {
			delete(c.store.Entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Info("Cleaned expired chart cache entries", "count", removed)
		return c.save()
	}

	return nil
}

// Clear removes every entry for the dataset
func (c *ChartCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := len(c.store.Entries)
	c.store.Entries = make(map[string]*ChartCacheEntry)

	if err := c.save(); err != nil {
		return err
	}

	c.logger.Info("Cleared chart cache", "dataset", c.dataset, "count", count)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *ChartCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.store.Entries)
}

// load reads the cache from disk
func (c *ChartCache) load() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c.store); err != nil {
		return fmt.Errorf("failed to unmarshal chart cache file: %w", err)
	}
	if c.store.Entries == nil {
		c.store.Entries = make(map[string]*ChartCacheEntry)
	}

	return nil
}

// save writes the cache to disk
func (c *ChartCache) save() error {
	data, err := json.MarshalIndent(c.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chart cache: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return &StorageError{Operation: "write_cache", Path: c.filePath, Err: err}
	}

	return nil
}

// Close drops expired entries before the process exits
func (c *ChartCache) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cleanExpired()
}
