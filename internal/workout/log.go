package workout

import (
	"iter"
	"strconv"
)

// Log is the append-only list of workouts recorded in one session.
// It is not safe for concurrent use; the owning Recorder serializes access.
type Log struct {
	records []Record
	index   map[string]int
	seq     int
}

func NewLog() *Log {
	return &Log{index: map[string]int{}}
}

// Append stores rec, assigning it the next identifier, and returns the stored copy.
func (l *Log) Append(rec Record) Record {
	l.seq++
	rec = rec.clone()
	rec.ID = strconv.Itoa(l.seq)
	l.index[rec.ID] = len(l.records)
	l.records = append(l.records, rec)
	return rec.clone()
}

func (l *Log) FindByID(id string) (Record, error) {
	i, ok := l.index[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return l.records[i].clone(), nil
}

// All yields the records in insertion order. Each call starts over.
func (l *Log) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range l.records {
			if !yield(rec.clone()) {
				return
			}
		}
	}
}

func (l *Log) Len() int {
	return len(l.records)
}
