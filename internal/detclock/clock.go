// Package detclock implements the deterministic-time checkpoint model
// of spec §5: after each significant unit of work the engine advances a
// deterministic clock by an amount derived from a predictable work
// counter, and callers poll a wall-clock or deterministic limit between
// checkpoints.
package detclock

import "time"

// Limit tracks both a deterministic-time budget and a wall-clock
// deadline; LimitReached combines the two exactly as spec §5 describes
// ("caller may poll a wall-clock or deterministic limit between
// advances").
type Limit struct {
	deterministicElapsed float64
	deterministicBudget  float64 // <=0 means unlimited

	deadline time.Time
	hasDeadline bool
}

// NewLimit returns a limit with the given deterministic-time budget (0
// or negative means unlimited) and wall-clock duration (0 or negative
// means unlimited).
func NewLimit(deterministicBudget float64, wallClock time.Duration) *Limit {
	l := &Limit{deterministicBudget: deterministicBudget}
	if wallClock > 0 {
		l.deadline = time.Now().Add(wallClock)
		l.hasDeadline = true
	}
	return l
}

// AdvanceDeterministicTime adds delta to the elapsed deterministic
// time. delta should be derived from a predictable work counter
// (floating-point op count + basis-factorization cost + pricing cost),
// never from a wall-clock read, so that two solves of the same
// instance accumulate identical deterministic time (spec §8's
// determinism property).
func (l *Limit) AdvanceDeterministicTime(delta float64) {
	l.deterministicElapsed += delta
}

// DeterministicTimeElapsed returns the accumulated deterministic time.
func (l *Limit) DeterministicTimeElapsed() float64 { return l.deterministicElapsed }

// LimitReached reports whether either the deterministic or wall-clock
// budget has been exhausted. Checked at loop tops only, per spec §5: no
// partial iteration is ever applied past the cancellation point.
func (l *Limit) LimitReached() bool {
	if l.deterministicBudget > 0 && l.deterministicElapsed >= l.deterministicBudget {
		return true
	}
	if l.hasDeadline && !time.Now().Before(l.deadline) {
		return true
	}
	return false
}

// WorkCost derives a deterministic time increment from a predictable
// work counter: floating-point operation count plus a basis-
// factorization cost term plus a pricing cost term, each separately
// weighted so that a refactorization (O(m^3)-ish) reads as far more
// expensive than a single pricing pass (O(nnz)-ish).
func WorkCost(floatingPointOps, factorizationCost, pricingCost float64) float64 {
	const (
		opWeight            = 1e-9
		factorizationWeight = 1e-6
		pricingWeight       = 1e-8
	)
	return floatingPointOps*opWeight + factorizationCost*factorizationWeight + pricingCost*pricingWeight
}

// Checkpoint is a scoped guard: Close (typically deferred) advances the
// limit's deterministic time by whatever WorkCost the caller accumulated
// through Add, regardless of which return path triggered the defer —
// the "update deterministic time on return" idiom of spec §9, modeled
// after the original's class Cleanup.
type Checkpoint struct {
	limit    *Limit
	floatOps float64
	factCost float64
	priCost  float64
}

// Begin starts a checkpoint against limit. Callers should `defer
// cp.Close()` immediately after Begin returns.
func Begin(limit *Limit) *Checkpoint {
	return &Checkpoint{limit: limit}
}

// AddFloatingPointOps accumulates floating-point operation count to be
// charged when the checkpoint closes.
func (c *Checkpoint) AddFloatingPointOps(n float64) { c.floatOps += n }

// AddFactorizationCost accumulates basis-factorization cost.
func (c *Checkpoint) AddFactorizationCost(n float64) { c.factCost += n }

// AddPricingCost accumulates pricing cost.
func (c *Checkpoint) AddPricingCost(n float64) { c.priCost += n }

// Close advances the underlying limit's deterministic time by the
// accumulated work cost. Safe to call via defer from any return path.
func (c *Checkpoint) Close() {
	c.limit.AdvanceDeterministicTime(WorkCost(c.floatOps, c.factCost, c.priCost))
}
