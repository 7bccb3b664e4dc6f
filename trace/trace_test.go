package trace

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/rope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	s, err := Open(filepath.Join(t.TempDir(), "trace"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func recordRun(t *testing.T, ticks int) []Frame {
	t.Helper()
	sim, err := rope.NewSimulator(cp.Vector{}, rope.DefaultConfig())
	require.NoError(t, err)
	frames, err := Record(sim, anchor.Fixed{X: 0.5, Y: 0}, ticks, 0.02)
	require.NoError(t, err)
	return frames
}

func TestFrameRoundTripKeepsBits(t *testing.T) {
	f := Frame{Tick: 3, Time: 0.1 + 0.2, Points: []cp.Vector{{X: math.Nextafter(1, 2), Y: -0.0}, {X: math.Inf(1), Y: 1e-300}}}
	got, err := decodeFrame(3, encodeFrame(f))
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(f.Time), math.Float64bits(got.Time))
	for i := range f.Points {
		assert.Equal(t, math.Float64bits(f.Points[i].X), math.Float64bits(got.Points[i].X))
		assert.Equal(t, math.Float64bits(f.Points[i].Y), math.Float64bits(got.Points[i].Y))
	}

	_, err = decodeFrame(3, encodeFrame(f)[:20])
	require.ErrorIs(t, err, ErrCorruptFrame)
}

func TestRecord(t *testing.T) {
	frames := recordRun(t, 10)
	require.Len(t, frames, 10)
	assert.Equal(t, 1, frames[0].Tick)
	assert.Equal(t, 10, frames[9].Tick)
	for _, f := range frames {
		require.Len(t, f.Points, rope.DefaultSegmentCount)
		assert.Equal(t, cp.Vector{X: 0.5, Y: 0}, f.Points[0])
	}

	var sim rope.Simulator
	_, err := Record(&sim, nil, 1, 0.02)
	require.ErrorIs(t, err, rope.ErrNotInitialized)
}

func TestCompare(t *testing.T) {
	a := recordRun(t, 20)
	b := recordRun(t, 20)

	_, diverged := Compare(a, b, 0)
	assert.False(t, diverged)

	b[7].Points[3].X = math.Nextafter(b[7].Points[3].X, math.Inf(1))
	tick, diverged := Compare(a, b, 0)
	assert.True(t, diverged)
	assert.Equal(t, 8, tick)

	_, diverged = Compare(a, b, 1e-9)
	assert.False(t, diverged)

	tick, diverged = Compare(a, a[:15], 1e-9)
	assert.True(t, diverged)
	assert.Equal(t, 16, tick)
}

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t)
	frames := recordRun(t, 300)

	require.NoError(t, s.PutAll("base", frames))
	got, err := s.Frames("base")
	require.NoError(t, err)
	require.Len(t, got, len(frames))

	_, diverged := Compare(frames, got, 0)
	assert.False(t, diverged, "stored frames should be bit-identical")
}

func TestStorePutOrdersByTick(t *testing.T) {
	s := openStore(t)
	for _, tick := range []int{300, 2, 256, 1} {
		require.NoError(t, s.Put("order", Frame{Tick: tick, Points: []cp.Vector{{X: float64(tick)}}}))
	}

	got, err := s.Frames("order")
	require.NoError(t, err)
	var ticks []int
	for _, f := range got {
		ticks = append(ticks, f.Tick)
	}
	assert.Equal(t, []int{1, 2, 256, 300}, ticks)
}

func TestStoreRunsAndDelete(t *testing.T) {
	s := openStore(t)
	for _, run := range []string{"b", "a", "a-2"} {
		require.NoError(t, s.Put(run, Frame{Tick: 1}))
		require.NoError(t, s.Put(run, Frame{Tick: 2}))
	}

	runs, err := s.Runs()
	require.NoError(t, err)
	// '-' sorts before '/', so "a-2" precedes "a"
	assert.Equal(t, []string{"a-2", "a", "b"}, runs)

	require.NoError(t, s.Delete("a"))
	runs, err = s.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a-2", "b"}, runs)

	frames, err := s.Frames("a")
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestStoreRejectsBadRunNames(t *testing.T) {
	s := openStore(t)
	for _, run := range []string{"", "a/b"} {
		require.ErrorIs(t, s.Put(run, Frame{}), ErrInvalidRun)
		_, err := s.Frames(run)
		require.ErrorIs(t, err, ErrInvalidRun)
		require.ErrorIs(t, s.Delete(run), ErrInvalidRun)
	}
}
