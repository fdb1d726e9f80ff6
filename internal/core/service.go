package core

import (
	"context"
	"sync"
	"time"
)

// LoadTimeout bounds a single Service.Load call unless LoadOptions.Timeout
// is set.
var LoadTimeout = 2 * time.Minute

// Service holds the current price list for long-lived callers.
//
// Load replaces the list wholesale; queries always see either the previous
// or the new list, never a mix. Loads run one at a time.
type Service struct {
	dir     string
	opts    LoadOptions
	limiter *LoadLimiter
	history *loadHistory

	mu      sync.RWMutex
	current *PriceList
}

// NewService creates a Service reading price lists from dir.
func NewService(dir string, opts LoadOptions) *Service {
	return &Service{
		dir:     dir,
		opts:    opts,
		limiter: NewLoadLimiter(DefaultMaxConcurrentLoads, DefaultMaxLoadWait),
		history: newLoadHistory(DefaultHistorySize),
	}
}

// Dir returns the directory the service loads from.
func (s *Service) Dir() string {
	return s.dir
}

// Load aggregates the directory again and makes the result current.
// On failure the previous list stays in place. A load waiting too long
// behind another one fails with ErrLoadBusy.
func (s *Service) Load(ctx context.Context) (*PriceList, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	timeout := s.opts.Timeout
	if timeout <= 0 {
		timeout = LoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	list, err := LoadPrices(ctx, s.dir, s.opts)
	s.history.add(newLoadRecord(start, list, err))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = list
	s.mu.Unlock()

	return list, nil
}

// WaitForLoads blocks until a running load finishes or ctx is done.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// History returns the most recent load attempts, newest first.
func (s *Service) History() []LoadRecord {
	return s.history.list()
}

// Current returns the current price list.
func (s *Service) Current() (*PriceList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// Search runs a case-insensitive name search on the current list.
func (s *Service) Search(q string) ([]Row, error) {
	list, err := s.Current()
	if err != nil {
		return nil, err
	}
	return list.Search(q), nil
}

// Summary returns unit price statistics of the current list.
func (s *Service) Summary() (Summary, error) {
	list, err := s.Current()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list.rows)
}
