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
	"math"
	"math/rand/v2"
)

// Defaults for the demo normal population
const (
	defaultMinConsumption  = 5.0
	defaultConsumptionSpan = 200.0
	defaultBillingRate     = 1.4
	defaultBillingJitter   = 20.0
)

// SyntheticSampleGenerator produces a reproducible population of normal
// readings for demos and tests. Real deployments load detection output instead.
type SyntheticSampleGenerator struct {
	settings SyntheticSettings
}

// NewSyntheticSampleGenerator fills unset settings with defaults.
// A zero seed selects DefaultSyntheticSeed.
func NewSyntheticSampleGenerator(settings SyntheticSettings) *SyntheticSampleGenerator {
	if settings.Count <= 0 {
		settings.Count = DefaultSyntheticCount
	}
	if settings.Seed == 0 {
		settings.Seed = DefaultSyntheticSeed
	}
	if settings.MinConsumption <= 0 {
		settings.MinConsumption = defaultMinConsumption
	}
	if settings.ConsumptionSpan <= 0 {
		settings.ConsumptionSpan = defaultConsumptionSpan
	}
	if settings.BillingRate <= 0 {
		settings.BillingRate = defaultBillingRate
	}
	if settings.BillingJitter <= 0 {
		settings.BillingJitter = defaultBillingJitter
	}
	return &SyntheticSampleGenerator{settings: settings}
}

// Settings returns the effective settings
func (g *SyntheticSampleGenerator) Settings() SyntheticSettings {
	return g.settings
}

// NormalSamples generates the normal population. Each call restarts from the
// seed, so repeated calls return identical slices.
func (g *SyntheticSampleGenerator) NormalSamples() []ConsumptionSample {
	s := g.settings
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))

	samples := make([]ConsumptionSample, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		consumption := rng.Float64()*s.ConsumptionSpan + s.MinConsumption
		billing := consumption*s.BillingRate + rng.Float64()*s.BillingJitter
		samples = append(samples, ConsumptionSample{
			ConsumptionKWh: math.Round(consumption),
			BillingAmount:  math.Round(billing),
			Category:       CategoryNormal,
		})
	}
	return samples
}

// Population returns the normal samples followed by the given anomaly cases
func (g *SyntheticSampleGenerator) Population(cases []AnomalyCase) []ConsumptionSample {
	samples := g.NormalSamples()
	for _, c := range cases {
		samples = append(samples, c.Sample())
	}
	return samples
}
