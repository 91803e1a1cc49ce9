package events

import "sync"

// Recorder keeps every event in memory. It is used by tests and by callers
// that want to inspect a finished batch.
type Recorder struct {
	mu       sync.Mutex
	events   []Event
	progress [][2]int
}

// Handle implements Sink
func (r *Recorder) Handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Progress implements Sink
func (r *Recorder) Progress(completed, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, [2]int{completed, total})
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Messages returns the messages recorded at the given level
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Level == level {
			out = append(out, ev.Message)
		}
	}
	return out
}

// ProgressUpdates returns every (completed, total) pair received
func (r *Recorder) ProgressUpdates() [][2]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][2]int, len(r.progress))
	copy(out, r.progress)
	return out
}
