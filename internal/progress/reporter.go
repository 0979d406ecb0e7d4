// Package progress implements the progress reporter: a per-operation
// record store observable by UI subscribers. An operation's record
// exists only for the duration of a Wrap call; updates for retired
// operations are silently dropped.
package progress

import (
	"errors"
	"fmt"
	"sync"
)

// Error definitions for the progress package.
var (
	// ErrOperationActive is returned when Wrap is called for an
	// operation id that is already being wrapped.
	ErrOperationActive = errors.New("operation already in progress")
)

// Record is the current state of a named operation.
type Record struct {
	ID       string  // Operation id
	Status   string  // Named lifecycle status (e.g. "creating", "done")
	Progress float64 // Fractional progress in [0, 1]; -1 when indeterminate
	Info     string  // Transient step description; empty when cleared
}

// Update carries a partial record. Nil fields are left untouched when
// merged; a non-nil empty Info clears the current info line.
type Update struct {
	ID       string
	Status   *string
	Progress *float64
	Info     *string
}

// Reporter associates operation ids with status/progress/info records
// and fans updates out to subscribers. Safe for concurrent use.
type Reporter struct {
	mu          sync.RWMutex
	records     map[string]*Record
	subscribers map[int]func(Record)
	nextSub     int
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{
		records:     make(map[string]*Record),
		subscribers: make(map[int]func(Record)),
	}
}

// Get returns the current record for id. The second return value is
// false when no operation with that id is active.
func (r *Reporter) Get(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Set merges the update into the record for u.ID and notifies
// subscribers. Updates for ids without an active record are dropped,
// which is what retires late or out-of-order events after completion.
func (r *Reporter) Set(u Update) {
	r.mu.Lock()
	rec, ok := r.records[u.ID]
	if !ok {
		r.mu.Unlock()
		return
	}
	if u.Status != nil {
		rec.Status = *u.Status
	}
	if u.Progress != nil {
		rec.Progress = *u.Progress
	}
	if u.Info != nil {
		rec.Info = *u.Info
	}
	snapshot := *rec
	subs := make([]func(Record), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Wrap executes fn with a Setter bound to id. The record is guaranteed
// to exist for the duration of fn and is retired afterward on every
// exit path. A second Wrap for an id that is still active fails with
// ErrOperationActive; this is the only guard against overlapping runs
// of the same operation.
func (r *Reporter) Wrap(id string, fn func(set *Setter) error) error {
	r.mu.Lock()
	if _, active := r.records[id]; active {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOperationActive, id)
	}
	r.records[id] = &Record{ID: id, Progress: -1}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.records, id)
		r.mu.Unlock()
	}()

	return fn(&Setter{reporter: r, id: id})
}

// Subscribe registers a callback invoked on every record change. The
// returned function removes the subscription.
func (r *Reporter) Subscribe(fn func(Record)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.nextSub
	r.nextSub++
	r.subscribers[key] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, key)
	}
}

// Setter emits updates for a single wrapped operation id.
type Setter struct {
	reporter *Reporter
	id       string
}

// Status sets the named lifecycle status.
func (s *Setter) Status(status string) {
	s.reporter.Set(Update{ID: s.id, Status: &status})
}

// Progress sets the fractional progress.
func (s *Setter) Progress(pct float64) {
	s.reporter.Set(Update{ID: s.id, Progress: &pct})
}

// Info sets the transient step description.
func (s *Setter) Info(info string) {
	s.reporter.Set(Update{ID: s.id, Info: &info})
}

// ClearInfo clears the step description before the next step.
func (s *Setter) ClearInfo() {
	empty := ""
	s.reporter.Set(Update{ID: s.id, Info: &empty})
}
