package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.SeasonMaxWindow != 7*24*time.Hour {
		t.Fatalf("unexpected SeasonMaxWindow: %s", cfg.SeasonMaxWindow)
	}
	if cfg.MatchSharedClock {
		t.Fatalf("expected a private match clock by default")
	}
	if cfg.MatchLiveSpeed != time.Second {
		t.Fatalf("unexpected MatchLiveSpeed: %s", cfg.MatchLiveSpeed)
	}
	if cfg.SimSeed != 0 {
		t.Fatalf("unexpected SimSeed: %d", cfg.SimSeed)
	}
	if cfg.ManagerTeamID != "idn-persija" {
		t.Fatalf("unexpected ManagerTeamID: %q", cfg.ManagerTeamID)
	}
	if cfg.LogLevel.String() != "info" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger docs outside prod")
	}
}

func TestLoad_RequiredWhenEnabled(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"STORAGE_DRIVER": "postgres", "DB_URL": ""}},
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true"}},
		{name: "bad pprof flag", env: map[string]string{"PPROF_ENABLED": "maybe"}},
		{name: "bad redis timeout", env: map[string]string{"REDIS_ENABLED": "true", "REDIS_TIMEOUT": "fast"}},
		{name: "zero window", env: map[string]string{"SEASON_MAX_WINDOW": "0s"}},
		{name: "negative pool", env: map[string]string{"SEASON_WORKER_POOL_SIZE": "-1"}},
		{name: "bad seed", env: map[string]string{"SIM_SEED": "abc"}},
		{name: "bad shared clock", env: map[string]string{"MATCH_SHARED_CLOCK": "sometimes"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tc.env)
			}
		})
	}
}

func TestLoad_SimulationParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("SEASON_MAX_WINDOW", "72h")
	t.Setenv("SEASON_WORKER_POOL_SIZE", "4")
	t.Setenv("MATCH_SHARED_CLOCK", "true")
	t.Setenv("MATCH_LIVE_SPEED", "250ms")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_STREAM_MAX_LEN", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	require.Equal(t, 72*time.Hour, cfg.SeasonMaxWindow)
	require.Equal(t, 4, cfg.WorkerPoolSize)
	require.True(t, cfg.MatchSharedClock)
	require.Equal(t, 250*time.Millisecond, cfg.MatchLiveSpeed)
	require.Equal(t, uint64(42), cfg.SimSeed)
	require.True(t, cfg.RedisEnabled)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, int64(100), cfg.RedisStreamMaxLen)
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoadTuning(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		got, err := LoadTuning("")
		require.NoError(t, err)
		require.Equal(t, DefaultTuning(), got)
	})

	t.Run("partial override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.yaml")
		raw := []byte(`
match:
  goal_chance: 0.02
  ratings:
    goal: 1.5
condition:
  effects:
    Training:
      fitness: -10
      sharpness: 7
`)
		require.NoError(t, os.WriteFile(path, raw, 0o600))

		got, err := LoadTuning(path)
		require.NoError(t, err)
		require.Equal(t, 0.02, got.Match.GoalChance)
		require.Equal(t, 1.5, got.Match.Ratings.Goal)
		require.Equal(t, match.DefaultTuning().ShotChance, got.Match.ShotChance)
		require.Equal(t, calendar.Effect{Fitness: -10, Sharpness: 7}, got.Condition.Effects[calendar.EventTraining])
		require.Equal(t, calendar.DefaultEffects()[calendar.EventRestDay], got.Condition.Effects[calendar.EventRestDay])
	})

	t.Run("rejects unknown keys and bad values", func(t *testing.T) {
		tests := []string{
			"match:\n  goal_chanse: 0.1\n",
			"match:\n  goal_chance: 1.5\n",
			"condition:\n  fitness_recovery_per_hour: -1\n",
		}
		for _, raw := range tests {
			out := DefaultTuning()
			if err := ParseTuning([]byte(raw), &out); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error for a missing file")
		}
	})
}
