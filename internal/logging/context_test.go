// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRunID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if len(id1) != 36 {
		t.Errorf("expected 36-character run ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique run IDs")
	}
}

func TestRunIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if id := RunIDFromContext(ctx); id != "" {
		t.Errorf("expected empty run ID, got %s", id)
	}

	ctx = ContextWithRunID(ctx, "run-123")
	if id := RunIDFromContext(ctx); id != "run-123" {
		t.Errorf("expected 'run-123', got '%s'", id)
	}
}

func TestCtx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRunID(ctx, "run-abc")

	Ctx(ctx).Info().Msg("fold scored")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"run-abc"`) {
		t.Errorf("expected run_id in output: %s", output)
	}
	if !strings.Contains(output, "fold scored") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestLoggerFromContextFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	logger := LoggerFromContext(context.Background())
	logger.Info().Msg("global")

	if !strings.Contains(buf.String(), "global") {
		t.Errorf("expected global logger to be used: %s", buf.String())
	}
}

func TestBadgerLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bl := NewBadgerLoggerWith(zerolog.New(&buf).Level(zerolog.TraceLevel))

	bl.Errorf("compaction failed: %s\n", "disk full")
	bl.Warningf("slow write")

	output := buf.String()
	if !strings.Contains(output, `"source":"badger"`) {
		t.Errorf("expected source field: %s", output)
	}
	if !strings.Contains(output, `"message":"compaction failed: disk full"`) {
		t.Errorf("expected trimmed error message: %s", output)
	}
	if !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("expected warn level line: %s", output)
	}
}
