package task

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID generates a task identifier of the form
// batch_<YYYYMMDD_HHMMSS>_<6 hex>, per spec.md §3.
func NewID(now time.Time) (string, error) {
	var buf [3]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("task: generate id suffix: %w", err)
	}
	return fmt.Sprintf("batch_%s_%s", now.Format("20060102_150405"), hex.EncodeToString(buf[:])), nil
}
