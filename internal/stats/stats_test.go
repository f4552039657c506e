package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotPercentiles(t *testing.T) {
	r := New(time.Hour)
	for _, ms := range []int{300, 100, 500, 200, 400} {
		r.Record(OpReformat, time.Duration(ms)*time.Millisecond)
	}

	snap := r.Snapshot()[OpReformat]
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.Equal(t, 300.0, snap.AvgMs)
	assert.Equal(t, 300.0, snap.P50Ms)
	assert.InDelta(t, 480.0, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496.0, snap.P99Ms, 1e-9)
}

func TestOperationsAreSeparate(t *testing.T) {
	r := New(time.Hour)
	r.Record(OpConvert, 2*time.Millisecond)
	r.Fail(OpConvert)
	r.Fail(OpReplace)

	snap := r.Snapshot()
	require.Contains(t, snap, OpConvert)
	assert.Equal(t, 1, snap[OpConvert].Count)
	assert.Equal(t, 1, snap[OpConvert].Failed)
	assert.Equal(t, Snapshot{Failed: 1}, snap[OpReplace])
	assert.NotContains(t, snap, OpReformat)
}

func TestPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	r := New(10 * time.Minute)
	r.now = func() time.Time { return now }

	r.Record(OpReformat, 100*time.Millisecond)
	r.Fail(OpReformat)
	now = now.Add(11 * time.Minute)
	assert.Empty(t, r.Snapshot())

	r.Record(OpReformat, 200*time.Millisecond)
	snap := r.Snapshot()[OpReformat]
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)
	assert.Equal(t, int64(200), snap.MaxMs)
	assert.Zero(t, snap.Failed)
}

func TestNegativeDurationClamped(t *testing.T) {
	r := New(0)
	r.Record(OpConvert, -time.Second)
	assert.Equal(t, int64(0), r.Snapshot()[OpConvert].MinMs)
}

func TestPercentileEdges(t *testing.T) {
	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]int64{7}, 95))
	assert.Equal(t, 1.0, percentile([]int64{1, 9}, 0))
	assert.Equal(t, 9.0, percentile([]int64{1, 9}, 100))
}
