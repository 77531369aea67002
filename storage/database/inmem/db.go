package inmemdb

import (
	"sync"

	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

type (
	// DB is an in-memory database. Tables share one lock so joins see a consistent view.
	DB struct {
		mutex sync.RWMutex

		users       map[int]*user.User
		assignments map[int]*classroom.Assignment
		submissions map[int]*classroom.Submission

		userSeq, assignmentSeq, submissionSeq int
	}
)

func Open() *DB {
	return &DB{
		users:       make(map[int]*user.User),
		assignments: make(map[int]*classroom.Assignment),
		submissions: make(map[int]*classroom.Submission),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = make(map[int]*user.User)
	db.assignments = make(map[int]*classroom.Assignment)
	db.submissions = make(map[int]*classroom.Submission)
	db.userSeq, db.assignmentSeq, db.submissionSeq = 0, 0, 0
}
