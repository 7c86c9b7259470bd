package detclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitUnlimitedByDefault(t *testing.T) {
	l := NewLimit(0, 0)
	l.AdvanceDeterministicTime(1e12)
	assert.False(t, l.LimitReached())
}

func TestLimitDeterministicBudget(t *testing.T) {
	l := NewLimit(10, 0)
	l.AdvanceDeterministicTime(5)
	assert.False(t, l.LimitReached())
	l.AdvanceDeterministicTime(5)
	assert.True(t, l.LimitReached())
}

func TestLimitWallClockDeadline(t *testing.T) {
	l := NewLimit(0, time.Millisecond)
	assert.False(t, l.LimitReached())
	time.Sleep(5 * time.Millisecond)
	assert.True(t, l.LimitReached())
}

func TestLimitDeterministicTimeElapsed(t *testing.T) {
	l := NewLimit(0, 0)
	l.AdvanceDeterministicTime(3)
	l.AdvanceDeterministicTime(4)
	assert.Equal(t, 7.0, l.DeterministicTimeElapsed())
}

func TestWorkCostWeighting(t *testing.T) {
	got := WorkCost(1, 1, 1)
	want := 1e-9 + 1e-6 + 1e-8
	assert.InDelta(t, want, got, 1e-15)

	// a refactorization unit should dominate an equal-sized pricing unit.
	assert.Greater(t, WorkCost(0, 1, 0), WorkCost(0, 0, 1))
}

func TestCheckpointClosesAgainstLimit(t *testing.T) {
	l := NewLimit(0, 0)
	func() {
		cp := Begin(l)
		defer cp.Close()
		cp.AddFloatingPointOps(100)
		cp.AddFactorizationCost(2)
		cp.AddPricingCost(5)
	}()

	want := WorkCost(100, 2, 5)
	assert.InDelta(t, want, l.DeterministicTimeElapsed(), 1e-15)
}

func TestCheckpointClosesOnEarlyReturn(t *testing.T) {
	l := NewLimit(0, 0)
	func() {
		cp := Begin(l)
		defer cp.Close()
		cp.AddFloatingPointOps(10)
		return
	}()
	assert.Greater(t, l.DeterministicTimeElapsed(), 0.0)
}
