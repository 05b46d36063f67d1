package inmemdb

import (
	"sync"

	"github.com/trezcool/obe/core/outcome"
)

type (
	// DB is an isolated in-memory store; every table is guarded by its own lock.
	DB struct {
		programOutcomes *table[outcome.ProgramOutcome]
		courses         *table[outcome.Course]
		courseOutcomes  *table[outcome.CourseOutcome]
		mappings        *table[outcome.OutcomeMapping]
		assessments     *table[outcome.AssessmentRecord]
		ipo             *table[outcome.IPOComponent]
	}

	table[T any] struct {
		rows  []T
		pk    int
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		programOutcomes: new(table[outcome.ProgramOutcome]),
		courses:         new(table[outcome.Course]),
		courseOutcomes:  new(table[outcome.CourseOutcome]),
		mappings:        new(table[outcome.OutcomeMapping]),
		assessments:     new(table[outcome.AssessmentRecord]),
		ipo:             new(table[outcome.IPOComponent]),
	}
}

// snapshot returns a copy of the rows; callers must hold the read lock.
func (t *table[T]) snapshot() []T {
	rows := make([]T, len(t.rows))
	copy(rows, t.rows)
	return rows
}

func (t *table[T]) exists(match func(T) bool) bool {
	for _, r := range t.rows {
		if match(r) {
			return true
		}
	}
	return false
}

func (t *table[T]) nextPK() int {
	t.pk++
	return t.pk
}
