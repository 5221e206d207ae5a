package index

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Increment(50)
	assert.Empty(t, buf.String(), "not started")

	tracker.Start()
	tracker.Increment(25)
	tracker.Increment(25)
	assert.Contains(t, buf.String(), "50/100")

	tracker.Increment(500)
	tracker.Finish()
	assert.Contains(t, buf.String(), "100/100")
	assert.Contains(t, buf.String(), "100.0%")
	assert.Contains(t, buf.String(), "\n")
	assert.GreaterOrEqual(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_EmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1)
	tracker.Start()
	tracker.Finish()
	assert.Contains(t, buf.String(), "0/0 (100.0%)")
}
