package ledger

import (
	"sync"
	"time"
)

// SpendLedger tracks INR deployed per day and per calendar month against
// configured caps. It replaces the scattered in-memory counters of earlier
// tooling with one explicit object: the engine owns it and passes it where
// needed. Rollover happens lazily on access, keyed to the local date.
type SpendLedger struct {
	mu sync.Mutex

	dailyCapINR   float64
	monthlyCapINR float64

	day        time.Time // midnight of the day being accumulated
	daySpent   float64
	month      time.Time // first of the month being accumulated
	monthSpent float64
}

// New creates a ledger with the given caps. A cap of 0 means unlimited.
func New(dailyCapINR, monthlyCapINR float64) *SpendLedger {
	return &SpendLedger{
		dailyCapINR:   dailyCapINR,
		monthlyCapINR: monthlyCapINR,
	}
}

// Check reports whether spending amountINR at the given time would stay
// within both caps.
func (l *SpendLedger) Check(amountINR float64, at time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(at)

	if l.dailyCapINR > 0 && l.daySpent+amountINR > l.dailyCapINR {
		return false
	}
	if l.monthlyCapINR > 0 && l.monthSpent+amountINR > l.monthlyCapINR {
		return false
	}
	return true
}

// Record adds a completed spend to the running totals.
func (l *SpendLedger) Record(amountINR float64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(at)
	l.daySpent += amountINR
	l.monthSpent += amountINR
}

// SpentToday returns the INR spent on the day containing at.
func (l *SpendLedger) SpentToday(at time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(at)
	return l.daySpent
}

// SpentThisMonth returns the INR spent in the month containing at.
func (l *SpendLedger) SpentThisMonth(at time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(at)
	return l.monthSpent
}

// roll resets the counters when the day or month boundary has passed.
// Callers must hold l.mu.
func (l *SpendLedger) roll(at time.Time) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	if !day.Equal(l.day) {
		l.day = day
		l.daySpent = 0
	}
	month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	if !month.Equal(l.month) {
		l.month = month
		l.monthSpent = 0
	}
}
