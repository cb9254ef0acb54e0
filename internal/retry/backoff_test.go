package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff_DefaultValues(t *testing.T) {
	strategy := NewExponentialBackoff(3)

	if strategy.initialDelay != 100*time.Millisecond {
		t.Errorf("Expected initialDelay=100ms, got %v", strategy.initialDelay)
	}
	if strategy.maxDelay != 30*time.Second {
		t.Errorf("Expected maxDelay=30s, got %v", strategy.maxDelay)
	}
	if strategy.multiplier != 2.0 {
		t.Errorf("Expected multiplier=2.0, got %v", strategy.multiplier)
	}
	if strategy.jitter != 0.1 {
		t.Errorf("Expected jitter=0.1, got %v", strategy.jitter)
	}
	if strategy.MaxAttempts() != 3 {
		t.Errorf("Expected MaxAttempts=3, got %v", strategy.MaxAttempts())
	}
}

func TestExponentialBackoff_NextDelay_WithoutJitter(t *testing.T) {
	strategy := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0), // Disable jitter for deterministic testing
	)

	tests := []struct {
		attempt       int
		expectedDelay time.Duration
	}{
		{attempt: 0, expectedDelay: 100 * time.Millisecond},  // 100 * 2^0
		{attempt: 1, expectedDelay: 200 * time.Millisecond},  // 100 * 2^1
		{attempt: 2, expectedDelay: 400 * time.Millisecond},  // 100 * 2^2
		{attempt: 3, expectedDelay: 800 * time.Millisecond},  // 100 * 2^3
		{attempt: 4, expectedDelay: 1600 * time.Millisecond}, // 100 * 2^4
	}

	for _, tt := range tests {
		delay := strategy.NextDelay(tt.attempt)
		if delay != tt.expectedDelay {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, delay, tt.expectedDelay)
		}
	}
}

func TestExponentialBackoff_NextDelay_MaxDelayCap(t *testing.T) {
	strategy := NewExponentialBackoff(10,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithMaxDelay(1*time.Second),
		WithJitter(0),
	)

	// Attempt 10: 100ms * 2^10 = 102.4s, capped at 1s
	delay := strategy.NextDelay(10)
	if delay != 1*time.Second {
		t.Errorf("NextDelay(10) = %v, want %v (should be capped at maxDelay)", delay, 1*time.Second)
	}
}

func TestExponentialBackoff_NextDelay_DeterministicJitter(t *testing.T) {
	tests := []struct {
		jitterValue   float64
		expectedDelay time.Duration
	}{
		// jitterFunc value maps [0,1) to a [-1,1) offset scaled by the
		// 0.1 jitter factor: 100ms * (1 + 0.1*offset)
		{jitterValue: 0.0, expectedDelay: 90 * time.Millisecond},  // offset -1.0
		{jitterValue: 0.5, expectedDelay: 100 * time.Millisecond}, // offset 0.0
		{jitterValue: 1.0, expectedDelay: 110 * time.Millisecond}, // offset +1.0
	}

	for _, tt := range tests {
		strategy := NewExponentialBackoff(3,
			WithInitialDelay(100*time.Millisecond),
			WithMultiplier(2.0),
			WithJitter(0.1),
			WithJitterFunc(func() float64 { return tt.jitterValue }),
		)

		delay := strategy.NextDelay(0)
		if delay != tt.expectedDelay {
			t.Errorf("NextDelay(0) with jitterValue=%v = %v, want %v", tt.jitterValue, delay, tt.expectedDelay)
		}
	}
}

func TestExponentialBackoff_NextDelay_JitterBounds(t *testing.T) {
	strategy := NewExponentialBackoff(3,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0.1),
	)

	for i := 0; i < 100; i++ {
		delay := strategy.NextDelay(0)
		if delay < 90*time.Millisecond || delay > 110*time.Millisecond {
			t.Errorf("NextDelay(0) = %v, want within [90ms, 110ms]", delay)
		}
	}
}
