package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", truncateID("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "", truncateID(""))
}

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	runs := []model.IntegrationRun{
		{
			ID:     "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
			Status: model.RunStatusComplete,
			Result: &model.RunResult{
				CanonicalCount:  5,
				DuplicateGroups: 2,
			},
			CreatedAt: created,
			UpdatedAt: created.Add(42 * time.Second),
		},
		{
			ID:        "ffffffff-0000-1111-2222-333333333333",
			Status:    model.RunStatusRunning,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	var sb strings.Builder
	formatRunsList(&sb, runs)
	out := sb.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "a1b2c3d4")
	assert.NotContains(t, out, "e5f6-7890")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "42s")
	assert.Contains(t, out, "2026-08-30 10:00")

	// Runs without a result render placeholders.
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "-")
}
