package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerNonTTY(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	s := newSpinner("Loading bookings", &buf, false)
	s.Start()
	s.Success("Loaded 50 rows")
	s.Stop()

	assert.Equal(t, "Loading bookings...\n+ Loaded 50 rows\n", buf.String())
}

func TestSpinnerError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	s := newSpinner("Querying", &buf, true)
	s.Start()
	s.Error("connection refused")

	assert.Contains(t, buf.String(), "Querying...")
	assert.Contains(t, buf.String(), "Error: connection refused")
}
