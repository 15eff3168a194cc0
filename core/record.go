package core

import (
	"os"
	"time"

	"github.com/petermattis/goid"
)

var pid = os.Getpid()

// Record is the immutable snapshot of a single log event. It is built
// once per log call and read-only afterwards, so any number of handlers
// may read it concurrently without synchronization.
type Record struct {
	Name      string
	Level     Level
	Message   string
	Time      time.Time
	ThreadID  int64
	ProcessID int
	Fields    []Field
}

// NewRecord builds a record for the calling goroutine, merging field
// sources in override order: scoped context first, then bound context,
// then call-site fields. Later entries shadow earlier ones on key
// collision via Lookup's back-to-front scan.
func NewRecord(name string, level Level, msg string, now time.Time, bound, call []Field) *Record {
	scoped := scopedFields()

	var fields []Field
	if n := len(scoped) + len(bound) + len(call); n > 0 {
		fields = make([]Field, 0, n)
		fields = append(fields, scoped...)
		fields = append(fields, bound...)
		fields = append(fields, call...)
	}

	return &Record{
		Name:      name,
		Level:     level,
		Message:   msg,
		Time:      now,
		ThreadID:  goid.Get(),
		ProcessID: pid,
		Fields:    fields,
	}
}

// Lookup returns the last field with the given key, honoring the
// later-wins merge rule. The second result is false when the key is
// absent.
func (r *Record) Lookup(key string) (Field, bool) {
	for i := len(r.Fields) - 1; i >= 0; i-- {
		if r.Fields[i].Key == key {
			return r.Fields[i], true
		}
	}
	return Field{}, false
}
