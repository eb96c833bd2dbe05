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

// RedrawFunc is invoked synchronously after every view selection
type RedrawFunc func(mode ViewMode)

// ViewController owns the active view. It starts on the geographic chart
// and only changes on an explicit SelectView call.
type ViewController struct {
	mode   ViewMode
	redraw RedrawFunc
	logger *Logger
}

// NewViewController creates a controller in the geographic view
func NewViewController(logger *Logger) *ViewController {
	return &ViewController{
		mode:   ViewGeographic,
		logger: logger.WithComponent("view"),
	}
}

// Mode returns the active view
func (v *ViewController) Mode() ViewMode {
	return v.mode
}

// OnRedraw registers the function notified after each selection
func (v *ViewController) OnRedraw(fn RedrawFunc) {
	v.redraw = fn
}

// SelectView switches to mode and notifies the redraw function.
// Selecting the active view re-renders without changing state.
func (v *ViewController) SelectView(mode ViewMode) error {
	if !mode.Valid() {
		return &ValidationError{
			Field:   "view",
			Value:   mode.String(),
			Message: "unknown view",
		}
	}

	previous := v.mode
	v.mode = mode
	v.logger.LogViewSelected(previous, mode)

	if v.redraw != nil {
		v.redraw(mode)
	}
	return nil
}
