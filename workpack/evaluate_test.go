package workpack_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"aviation-ops/advisor"
	"aviation-ops/models"
	"aviation-ops/workpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEvaluator struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	failIDs  map[string]bool
}

func (f *fakeEvaluator) EvaluateWorkPack(ctx context.Context, pack models.WorkPack) (models.Evaluation, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if f.failIDs[pack.ID] {
		return advisor.FallbackEvaluation(), fmt.Errorf("model unavailable")
	}
	return models.Evaluation{OverallScore: len(pack.Tasks), Summary: pack.Title}, nil
}

func packs(n int) []models.WorkPack {
	out := make([]models.WorkPack, n)
	for i := range out {
		out[i] = models.WorkPack{ID: fmt.Sprintf("WP-2025-%03d", i+1), Title: fmt.Sprintf("pack %d", i+1), Tasks: make([]models.WorkPackTask, i%4)}
	}
	return out
}

func TestEvaluateAll(t *testing.T) {
	ev := &fakeEvaluator{failIDs: map[string]bool{"WP-2025-003": true}}

	results, err := workpack.EvaluateAll(context.Background(), ev, packs(8), 2, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("WP-2025-%03d", i+1), r.WorkPackID)
	}
	assert.Equal(t, "pack 1", results[0].Evaluation.Summary)
	assert.Equal(t, 3, results[7].Evaluation.OverallScore)

	assert.Error(t, results[2].Err)
	assert.Equal(t, advisor.FallbackEvaluation(), results[2].Evaluation)

	assert.LessOrEqual(t, ev.peak, int32(2))
}

func TestEvaluateAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := workpack.EvaluateAll(ctx, &fakeEvaluator{}, packs(3), 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	r := workpack.Evaluate(context.Background(), &fakeEvaluator{}, models.WorkPack{ID: "WP-1", Title: "single"})
	assert.NoError(t, r.Err)
	assert.Equal(t, "single", r.Evaluation.Summary)
}
