package database

import "sync"

// ResetForTest forgets the process-wide instance so the next Init opens a
// new database. Only tests in this and dependent packages call it.
func ResetForTest() {
	instance = nil
	once = sync.Once{}
}
