package postsapi

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// circuitState represents the state of a circuit breaker
type circuitState int

const (
	stateClosed   circuitState = iota // Normal operation
	stateOpen                         // Failing fast
	stateHalfOpen                     // One trial request in flight at a time
)

func (s circuitState) String() string {
	switch s {
	case stateOpen:
		return "OPEN (failing)"
	case stateHalfOpen:
		return "HALF-OPEN (testing)"
	default:
		return "CLOSED (recovered)"
	}
}

// circuitBreaker tracks consecutive transport failures per operation and fails fast
// while an operation's circuit is open. It never retries on its own.
type circuitBreaker struct {
	now              func() time.Time
	logger           *slog.Logger
	failures         map[string]int
	lastFailure      map[string]time.Time
	state            map[string]circuitState
	trialInFlight    map[string]bool
	failureThreshold int
	openDuration     time.Duration
	mu               sync.Mutex
}

func newCircuitBreaker(threshold int, openDuration time.Duration, logger *slog.Logger) *circuitBreaker {
	return &circuitBreaker{
		now:              time.Now,
		logger:           logger,
		failures:         make(map[string]int),
		lastFailure:      make(map[string]time.Time),
		state:            make(map[string]circuitState),
		trialInFlight:    make(map[string]bool),
		failureThreshold: threshold,
		openDuration:     openDuration,
	}
}

// canAttempt reports whether a request for op may be sent.
// An open circuit whose open period has passed moves to half-open and lets a single
// trial request through; trial is true for that request. Others fail fast until the
// trial is recorded or released.
func (cb *circuitBreaker) canAttempt(op string) (trial bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.getState(op) {
	case stateOpen:
		nextRetry := cb.lastFailure[op].Add(cb.openDuration)
		if cb.now().Before(nextRetry) {
			return false, fmt.Errorf("%w for %s (failures: %d, next retry: %s)",
				ErrCircuitOpen,
				op,
				cb.failures[op],
				nextRetry.Format("15:04:05"))
		}
		cb.setState(op, stateHalfOpen)
		cb.trialInFlight[op] = true
		return true, nil
	case stateHalfOpen:
		if cb.trialInFlight[op] {
			return false, fmt.Errorf("%w for %s (trial request in flight)", ErrCircuitOpen, op)
		}
		cb.trialInFlight[op] = true
		return true, nil
	default:
		return false, nil
	}
}

// release frees the half-open slot of a trial request that ended without a recorded
// outcome, such as a cancelled caller. Once an outcome closed or reopened the circuit it does nothing.
func (cb *circuitBreaker) release(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.getState(op) == stateHalfOpen {
		delete(cb.trialInFlight, op)
	}
}

// recordSuccess closes the circuit and resets the failure count
func (cb *circuitBreaker) recordSuccess(op string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.failures, op)
	delete(cb.lastFailure, op)
	delete(cb.trialInFlight, op)
	if cb.getState(op) != stateClosed {
		cb.setState(op, stateClosed)
	}
}

// recordFailure counts a transport failure; a failed half-open trial reopens at once
func (cb *circuitBreaker) recordFailure(op string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.trialInFlight, op)

	cb.failures[op]++
	cb.lastFailure[op] = cb.now()
	failCount := cb.failures[op]

	state := cb.getState(op)
	if state == stateHalfOpen || failCount >= cb.failureThreshold {
		if state != stateOpen {
			cb.logger.Warn("[POSTS-API] opening circuit",
				"op", op,
				"consecutive_failures", failCount,
				"error", err)
			cb.state[op] = stateOpen
		}
		return
	}

	cb.logger.Debug("[POSTS-API] request failure",
		"op", op,
		"failure", failCount,
		"threshold", cb.failureThreshold,
		"error", err)
}

// getState returns the current state (must be called with lock held)
func (cb *circuitBreaker) getState(op string) circuitState {
	if state, exists := cb.state[op]; exists {
		return state
	}
	return stateClosed
}

// setState records and logs a transition (must be called with lock held)
func (cb *circuitBreaker) setState(op string, s circuitState) {
	cb.state[op] = s
	cb.logger.Info("[POSTS-API] circuit state changed", "op", op, "state", s.String())
}
