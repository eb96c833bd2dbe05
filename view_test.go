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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *Logger {
	return newLogger(io.Discard, true, false)
}

func TestViewControllerDefaultsToGeographic(t *testing.T) {
	assert.Equal(t, ViewGeographic, NewViewController(testLogger()).Mode())
}

func TestViewControllerTransitions(t *testing.T) {
	v := NewViewController(testLogger())

	var redraws []ViewMode
	v.OnRedraw(func(mode ViewMode) {
		redraws = append(redraws, mode)
	})

	steps := []ViewMode{ViewScatter, ViewScatter, ViewGeographic, ViewGeographic}
	for _, step := range steps {
		require.NoError(t, v.SelectView(step))
		assert.Equal(t, step, v.Mode())
	}

	// Selecting the active view still redraws.
	assert.Equal(t, steps, redraws)
}

func TestViewControllerRejectsUnknownMode(t *testing.T) {
	v := NewViewController(testLogger())
	called := false
	v.OnRedraw(func(ViewMode) { called = true })

	var verr *ValidationError
	require.ErrorAs(t, v.SelectView(ViewMode(7)), &verr)
	assert.False(t, called, "redraw called for rejected mode")
	assert.Equal(t, ViewGeographic, v.Mode())
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ViewMode
		wantErr bool
	}{
		{"", ViewGeographic, false},
		{"geographic", ViewGeographic, false},
		{"Mapa", ViewGeographic, false},
		{"scatter", ViewScatter, false},
		{" SCATTER ", ViewScatter, false},
		{"pie", ViewGeographic, true},
	}
	for _, tt := range tests {
		got, err := ParseViewMode(tt.in)
		if tt.wantErr {
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
