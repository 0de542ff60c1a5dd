package testsupport

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Seeded from the clock so parallel packages on a shared database never
// collide across runs.
var testSequence = uint64(time.Now().UnixNano() % 1000000)

// NextSequence returns the next process-unique counter value
func NextSequence() uint64 {
	return atomic.AddUint64(&testSequence, 1)
}

// UniqueName builds a per-test name like "player_123456"
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, NextSequence())
}

// UniqueCode builds a per-test market code like "rec_yds_123456"
func UniqueCode(base string) string {
	return fmt.Sprintf("%s_%d", base, NextSequence())
}

// UniqueString returns a UUID for cases that need global uniqueness
func UniqueString() string {
	return uuid.New().String()
}
