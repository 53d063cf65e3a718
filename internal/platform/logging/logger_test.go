package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: " WARN ", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "info", want: LevelInfo},
		{in: "loud", want: LevelInfo},
		{in: "", want: LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLogger_ContextCarriesScope(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	ctx := WithMatch(context.Background(), "m-1")
	ctx = WithFixture(ctx, "fx-7")
	ctx = WithTeam(ctx, "idn-persija")
	logger.InfoContext(ctx, "matchday started", "simulated", 8)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "matchday started", lines[0]["msg"])
	require.Equal(t, "m-1", lines[0]["match_id"])
	require.Equal(t, "fx-7", lines[0]["fixture_id"])
	require.Equal(t, "idn-persija", lines[0]["team_id"])
	require.EqualValues(t, 8, lines[0]["simulated"])
	if _, ok := lines[0]["advancement_id"]; ok {
		t.Fatalf("empty scope ids must be omitted")
	}
}

func TestLogger_ExplicitFieldWinsOverScope(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	ctx := WithTeam(context.Background(), "idn-persija")
	logger.WarnContext(ctx, "build week calendar failed", "team_id", "idn-persib", "error", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "idn-persib", lines[0]["team_id"])
	require.Equal(t, "boom", lines[0]["error"])
	if strings.Count(buf.String(), `"team_id"`) != 1 {
		t.Fatalf("expected a single team_id key, got %s", buf.String())
	}
}

func TestLogger_PlainMethodsIgnoreScopeAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelWarn, &buf).With("component", "migration")

	logger.Info("dropped")
	logger.Warn("kept", "version", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
	require.Equal(t, "migration", lines[0]["component"])
	require.Contains(t, lines[0]["caller"], "logger_test.go")
}

func TestScope_NestedContextsKeepEarlierIDs(t *testing.T) {
	ctx := WithAdvancement(context.Background(), "adv-20250804T080000Z")
	ctx = WithFixture(ctx, "fx-1")
	inner := WithFixture(ctx, "fx-2")

	require.Equal(t, Scope{AdvancementID: "adv-20250804T080000Z", FixtureID: "fx-1"}, ScopeFromContext(ctx))
	require.Equal(t, Scope{AdvancementID: "adv-20250804T080000Z", FixtureID: "fx-2"}, ScopeFromContext(inner))
	require.Equal(t, Scope{}, ScopeFromContext(context.Background()))
}

func TestDefault_NilLoggerFallsBack(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(LevelInfo, &buf))
	t.Cleanup(func() { SetDefault(nil) })

	var logger *Logger
	logger.InfoContext(WithMatch(context.Background(), "m-9"), "live match step failed")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "m-9", lines[0]["match_id"])
	require.NoError(t, logger.Sync())
}
