package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllScenarios(t *testing.T) {
	cfg := config{
		scenario:   "all",
		goroutines: 4,
		iterations: 500,
		timeout:    20 * time.Millisecond,
	}
	require.NoError(t, run(cfg))
}

func TestRunUnknownScenario(t *testing.T) {
	err := run(config{scenario: "nope", goroutines: 1})
	assert.ErrorContains(t, err, `unknown scenario "nope"`)
}

func TestRunRejectsNoGoroutines(t *testing.T) {
	err := run(config{scenario: "handoff"})
	assert.ErrorContains(t, err, "--goroutines")
}
