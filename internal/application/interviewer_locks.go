package application

import (
	"sync"

	"github.com/example/hiring-portal/internal/persistence"
)

// interviewerLocks serialises the check-then-commit sequence per interviewer. Entries are
// reference counted and removed once no goroutine holds or waits for them.
type interviewerLocks struct {
	mu    sync.Mutex
	locks map[string]*interviewerLock
}

type interviewerLock struct {
	mu   sync.Mutex
	refs int
}

func newInterviewerLocks() *interviewerLocks {
	return &interviewerLocks{locks: make(map[string]*interviewerLock)}
}

// Lock blocks until the interviewer's lock is held and returns the matching unlock function.
func (l *interviewerLocks) Lock(email string) func() {
	key := interviewerKey(email)

	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &interviewerLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// interviewerKey identifies an interviewer by email regardless of case, folded the same way the
// stores fold it.
func interviewerKey(email string) string {
	return persistence.InterviewerKey(email)
}

func (l *interviewerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
