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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticSamplesAreReproducible(t *testing.T) {
	a := NewSyntheticSampleGenerator(SyntheticSettings{Seed: 7}).NormalSamples()
	b := NewSyntheticSampleGenerator(SyntheticSettings{Seed: 7}).NormalSamples()
	require.Equal(t, a, b, "same seed produced different populations")

	c := NewSyntheticSampleGenerator(SyntheticSettings{Seed: 8}).NormalSamples()
	assert.NotEqual(t, a, c, "different seeds produced identical populations")
}

func TestSyntheticSamplesRespectBounds(t *testing.T) {
	g := NewSyntheticSampleGenerator(SyntheticSettings{})
	assert.Equal(t, uint64(DefaultSyntheticSeed), g.Settings().Seed)

	samples := g.NormalSamples()
	require.Len(t, samples, DefaultSyntheticCount)
	for i, s := range samples {
		assert.Equal(t, CategoryNormal, s.Category, "sample %d", i)
		assert.Empty(t, s.District, "sample %d", i)
		assert.GreaterOrEqual(t, s.ConsumptionKWh, 5.0, "sample %d", i)
		assert.LessOrEqual(t, s.ConsumptionKWh, 205.0, "sample %d", i)
		assert.GreaterOrEqual(t, s.BillingAmount, s.ConsumptionKWh*1.4-2, "sample %d", i)
		assert.LessOrEqual(t, s.BillingAmount, s.ConsumptionKWh*1.4+22, "sample %d", i)
	}
}

func TestPopulationAppendsAnomalies(t *testing.T) {
	g := NewSyntheticSampleGenerator(SyntheticSettings{Count: 10, Seed: 1})
	cases := []AnomalyCase{
		{ConsumptionKWh: 437991, BillingAmount: 613000, District: "ANANEA"},
		{ConsumptionKWh: 163598, BillingAmount: 229000, District: "PUTINA"},
	}

	samples := g.Population(cases)
	require.Len(t, samples, 12)
	for i, c := range cases {
		assert.Equal(t, c.Sample(), samples[10+i])
		assert.True(t, samples[10+i].IsAnomaly())
	}
}
