package tsc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplesWithFactor builds n+1 paired samples spaced by cycleStep cycles with
// an exact nanosPerCycle ratio of factor.
func samplesWithFactor(n int, cycleStep uint64, factor float64) []sample {
	samples := make([]sample, 0, n+1)
	cycles, wall := uint64(1_000_000), uint64(5_000_000_000)
	for i := 0; i <= n; i++ {
		samples = append(samples, sample{cycles: cycles, wallNanos: wall})
		cycles += cycleStep
		wall += uint64(float64(cycleStep) * factor)
	}
	return samples
}

func TestFactorFromSamplesExact(t *testing.T) {
	t.Parallel()
	factor, ok := factorFromSamples(samplesWithFactor(calibrationRounds, 3_000_000, 0.5))
	require.True(t, ok)
	assert.InDelta(t, 0.5, factor, 1e-9)
}

func TestFactorFromSamplesToleratesSmallJitter(t *testing.T) {
	t.Parallel()
	samples := samplesWithFactor(calibrationRounds, 3_000_000, 0.5)
	// shift one wall reading by 0.5% of the step, within maxFactorSpread
	samples[2].wallNanos += uint64(float64(3_000_000) * 0.5 * 0.005)

	factor, ok := factorFromSamples(samples)
	require.True(t, ok)
	assert.InDelta(t, 0.5, factor, 0.01)
}

func TestFactorFromSamplesRejectsSpread(t *testing.T) {
	t.Parallel()
	samples := samplesWithFactor(calibrationRounds, 3_000_000, 0.5)
	// a 10% step disagreement is far beyond maxFactorSpread
	samples[2].wallNanos += uint64(float64(3_000_000) * 0.5 * 0.1)

	_, ok := factorFromSamples(samples)
	assert.False(t, ok)
}

func TestFactorFromSamplesDiscardsImplausibleDeltas(t *testing.T) {
	t.Parallel()

	t.Run("backward wall clock", func(t *testing.T) {
		t.Parallel()
		samples := samplesWithFactor(calibrationRounds+2, 3_000_000, 0.5)
		// one wall reading steps backward: the two factors it participates in
		// must be discarded, the rest still calibrate
		samples[3].wallNanos = samples[2].wallNanos - 1000

		factor, ok := factorFromSamples(samples)
		require.True(t, ok)
		assert.InDelta(t, 0.5, factor, 0.01)
	})

	t.Run("non-increasing cycles", func(t *testing.T) {
		t.Parallel()
		samples := samplesWithFactor(calibrationRounds+2, 3_000_000, 0.5)
		// a repeated reading contributes a zero delta on both clocks
		samples[3] = samples[2]

		factor, ok := factorFromSamples(samples)
		require.True(t, ok)
		assert.InDelta(t, 0.5, factor, 0.01)
	})

	t.Run("too few surviving samples", func(t *testing.T) {
		t.Parallel()
		samples := samplesWithFactor(minValidSamples, 3_000_000, 0.5)
		// kill one factor, dropping the count below the minimum
		samples[1].cycles = samples[0].cycles

		_, ok := factorFromSamples(samples)
		assert.False(t, ok)
	})
}

func TestFactorFromSamplesEmpty(t *testing.T) {
	t.Parallel()
	_, ok := factorFromSamples(nil)
	assert.False(t, ok)
	_, ok = factorFromSamples([]sample{{cycles: 1, wallNanos: 1}})
	assert.False(t, ok)
}

func TestInitIsIdempotent(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			Init()
			results[slot] = Available()
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, results[0], got)
	}
	assert.Equal(t, results[0], Available())
	assert.Greater(t, NanosPerCycle(), 0.0)
}
