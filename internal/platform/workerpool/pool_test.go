package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_CollectsResultsInInputOrder(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results, stats, err := Run(context.Background(), 3, inputs, func(_ context.Context, in int) (int, error) {
		return in * in, nil
	}, nil)
	require.NoError(t, err)
	require.Equal(t, Stats{Succeeded: 8}, stats)
	for i, row := range results {
		if row.Value != inputs[i]*inputs[i] {
			t.Fatalf("result %d: expected %d, got %d", i, inputs[i]*inputs[i], row.Value)
		}
	}
}

func TestRun_IsolatesFailuresAndPanics(t *testing.T) {
	var done atomic.Int32
	results, stats, err := Run(context.Background(), 0, []string{"ok", "fail", "panic", "ok"}, func(_ context.Context, in string) (string, error) {
		switch in {
		case "fail":
			return "", errors.New("boom")
		case "panic":
			panic("worker exploded")
		}
		return in, nil
	}, func(Result[string]) {
		done.Add(1)
	})
	require.NoError(t, err)
	require.Equal(t, 2, stats.Succeeded)
	require.Equal(t, 2, stats.Failed)
	require.EqualValues(t, 4, done.Load())

	require.NoError(t, results[0].Err)
	require.EqualError(t, results[1].Err, "boom")
	require.Error(t, results[2].Err)
	require.Empty(t, results[2].Value)
	require.Equal(t, "ok", results[3].Value)
}

func TestRun_NoInputs(t *testing.T) {
	results, stats, err := Run(context.Background(), 4, nil, func(context.Context, int) (int, error) {
		return 0, nil
	}, nil)
	require.NoError(t, err)
	require.Nil(t, results)
	require.Equal(t, Stats{}, stats)
}
