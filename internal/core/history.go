package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistorySize is how many load records a Service keeps.
const DefaultHistorySize = 20

// LoadOutcome is the result of one load attempt.
type LoadOutcome string

const (
	OutcomeLoaded LoadOutcome = "loaded"
	OutcomeFailed LoadOutcome = "failed"
)

// LoadRecord describes one load attempt, successful or not.
type LoadRecord struct {
	ID         uuid.UUID   `json:"id"`
	Outcome    LoadOutcome `json:"outcome"`
	StartedAt  time.Time   `json:"startedAt"`
	DurationMs int64       `json:"durationMs"`
	Files      int         `json:"files"`
	Rows       int         `json:"rows"`
	Excluded   int         `json:"excluded"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
}

func newLoadRecord(start time.Time, list *PriceList, err error) LoadRecord {
	rec := LoadRecord{
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.ID = uuid.New()
		rec.Outcome = OutcomeFailed
		rec.Error = err.Error()
		rec.Code = MapError(err).Code
		return rec
	}
	rec.ID = list.ID
	rec.Outcome = OutcomeLoaded
	rec.Files = len(list.Report.Files)
	rec.Rows = list.Len()
	rec.Excluded = list.Report.Excluded
	return rec
}

// loadHistory is a bounded ring of load records.
type loadHistory struct {
	mu      sync.Mutex
	size    int
	records []LoadRecord
}

func newLoadHistory(size int) *loadHistory {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &loadHistory{size: size}
}

func (h *loadHistory) add(rec LoadRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if len(h.records) > h.size {
		h.records = h.records[len(h.records)-h.size:]
	}
}

// list returns the records newest first.
func (h *loadHistory) list() []LoadRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]LoadRecord, len(h.records))
	for i, rec := range h.records {
		out[len(out)-1-i] = rec
	}
	return out
}
