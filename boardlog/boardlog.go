// Package boardlog keeps the most recent log entries in memory so they can be
// served to clients without access to the board's console.
package boardlog

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultCapacity = 500

// check BoardLog compliance to its interface during compile time
var _ log.Hook = (*BoardLog)(nil)

type Entry struct {
	Time    time.Time  `json:"time"`
	Level   string     `json:"level"`
	System  string     `json:"system,omitempty"`
	Message string     `json:"message"`
	Fields  log.Fields `json:"fields,omitempty"`
}

// BoardLog is a logrus hook retaining the last entries in a ring buffer.
type BoardLog struct {
	mtx     sync.Mutex
	entries []*Entry
	next    int
	full    bool
}

func New() *BoardLog {
	return NewWithCapacity(DefaultCapacity)
}

func NewWithCapacity(capacity int) *BoardLog {
	if capacity < 1 {
		capacity = 1
	}

	return &BoardLog{
		entries: make([]*Entry, capacity),
	}
}

func (b *BoardLog) Levels() []log.Level {
	return log.AllLevels
}

func (b *BoardLog) Fire(entry *log.Entry) error {
	e := &Entry{
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
	}

	for key, value := range entry.Data {
		if key == "system" {
			if system, ok := value.(string); ok {
				e.System = system
				continue
			}
		}

		if e.Fields == nil {
			e.Fields = log.Fields{}
		}

		if err, ok := value.(error); ok {
			e.Fields[key] = err.Error()
		} else {
			e.Fields[key] = value
		}
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}

	return nil
}

// Entries returns up to limit of the most recent entries, oldest first. A
// limit below one returns everything retained.
func (b *BoardLog) Entries(limit int) []*Entry {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	var ordered []*Entry

	if b.full {
		ordered = append(ordered, b.entries[b.next:]...)
	}
	ordered = append(ordered, b.entries[:b.next]...)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	return ordered
}
