package flashsale

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	ch chan Update
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Update, 128)}
}

func (r *recorder) OnFlashSaleUpdate(u Update) {
	r.ch <- u
}

func (r *recorder) next(t *testing.T) Update {
	t.Helper()
	select {
	case u := <-r.ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flash sale update")
		return Update{}
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case u := <-r.ch:
		t.Fatalf("unexpected update: %+v", u)
	case <-time.After(50 * time.Millisecond):
	}
}

func makeProducts(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{
			ID:       i + 1,
			Title:    fmt.Sprintf("product %d", i+1),
			Price:    float64(i) + 9.99,
			Category: "electronics",
		}
	}
	return out
}

func newTestScheduler(t *testing.T, start time.Time) (*Scheduler, *clockwork.FakeClock, *recorder) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(start)
	s := NewScheduler(
		WithClock(clock),
		WithRand(rand.New(rand.NewPCG(11, 13))),
		WithLocation(time.UTC),
	)
	rec := newRecorder()
	s.Subscribe(rec)
	t.Cleanup(s.Stop)
	return s, clock, rec
}

func TestSchedulerBootstrapAfterStart(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(10, 0, 0))
	require.NoError(t, s.Start(context.Background()))

	first := rec.next(t)
	assert.False(t, first.Rotated)
	assert.Empty(t, first.Selection)
	assert.Equal(t, WindowDay, first.Window)
	assert.Equal(t, "06:00:00", first.Countdown)

	catalog := makeProducts(12)
	s.UpdateCatalog(catalog)

	boot := rec.next(t)
	require.True(t, boot.Rotated)
	require.Len(t, boot.Selection, DefaultSelectionSize)
	assert.Equal(t, WindowDay, boot.Window)
	for _, p := range boot.Selection {
		assert.Contains(t, catalog, p)
	}

	// a refreshed catalog does not reshuffle mid-window
	s.UpdateCatalog(makeProducts(3))
	rec.none(t)

	clock.Advance(time.Second)
	u := rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, "05:59:59", u.Countdown)
	assert.Equal(t, boot.Selection, u.Selection)
}

func TestSchedulerRotatesOncePerBoundary(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(7, 59, 58))
	s.UpdateCatalog(makeProducts(12))
	require.NoError(t, s.Start(context.Background()))

	boot := rec.next(t)
	require.True(t, boot.Rotated)
	assert.Equal(t, WindowNight, boot.Window)

	u := rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, "00:00:02", u.Countdown)

	clock.Advance(time.Second)
	u = rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, "00:00:01", u.Countdown)

	clock.Advance(time.Second)
	u = rec.next(t)
	require.True(t, u.Rotated)
	assert.Equal(t, WindowDay, u.Window)
	assert.Equal(t, "08:00:00", u.Countdown)
	assert.Len(t, u.Selection, DefaultSelectionSize)
	assert.True(t, u.NextRotationAt.Equal(at(16, 0, 0)))

	clock.Advance(time.Second)
	u = rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, WindowDay, u.Window)
	assert.Equal(t, "07:59:59", u.Countdown)
}

func TestSchedulerEmptyCatalogAtBoundary(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(15, 59, 59))
	require.NoError(t, s.Start(context.Background()))
	rec.next(t)

	clock.Advance(time.Second)
	u := rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, WindowEvening, u.Window)
	assert.Equal(t, "08:00:00", u.Countdown)
	assert.Empty(t, u.Selection)

	clock.Advance(time.Second)
	u = rec.next(t)
	assert.False(t, u.Rotated)
	assert.Empty(t, u.Selection)

	// bootstrap is still pending and fires once items show up
	s.UpdateCatalog(makeProducts(2))
	u = rec.next(t)
	assert.True(t, u.Rotated)
	assert.Len(t, u.Selection, 2)
	assert.Equal(t, WindowEvening, u.Window)
}

func TestSchedulerKeepsSelectionWhenCatalogEmptiesBeforeBoundary(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(15, 59, 58))
	s.UpdateCatalog(makeProducts(12))
	require.NoError(t, s.Start(context.Background()))

	boot := rec.next(t)
	require.True(t, boot.Rotated)
	require.Len(t, boot.Selection, DefaultSelectionSize)
	rec.next(t)

	s.UpdateCatalog(nil)
	rec.none(t)

	clock.Advance(time.Second)
	assert.Equal(t, "00:00:01", rec.next(t).Countdown)

	clock.Advance(time.Second)
	u := rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, WindowEvening, u.Window)
	assert.Equal(t, boot.Selection, u.Selection)

	// items coming back mid-window wait for the next boundary
	s.UpdateCatalog(makeProducts(3))
	rec.none(t)
	clock.Advance(time.Second)
	u = rec.next(t)
	assert.False(t, u.Rotated)
	assert.Equal(t, boot.Selection, u.Selection)
}

func TestSchedulerSkippedTicksDetectChange(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(7, 59, 0))
	s.UpdateCatalog(makeProducts(12))
	require.NoError(t, s.Start(context.Background()))
	rec.next(t)
	rec.next(t)

	// a suspended host wakes up well past the boundary
	clock.Advance(3 * time.Hour)

	var rotated Update
	require.Eventually(t, func() bool {
		select {
		case u := <-rec.ch:
			if u.Rotated {
				rotated = u
				return true
			}
		default:
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, WindowDay, rotated.Window)
	assert.Len(t, rotated.Selection, DefaultSelectionSize)
}

func TestSchedulerStop(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(12, 0, 0))
	require.NoError(t, s.Start(context.Background()))
	rec.next(t)

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	s.Stop()
	s.Stop()

	clock.Advance(time.Second)
	rec.none(t)

	// restart reuses the catalog it already holds
	s.UpdateCatalog(makeProducts(6))
	require.NoError(t, s.Start(context.Background()))
	u := rec.next(t)
	assert.True(t, u.Rotated)
	assert.Len(t, u.Selection, DefaultSelectionSize)
}

func TestSchedulerContextCancel(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(12, 0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	rec.next(t)

	cancel()
	s.Stop()

	clock.Advance(time.Second)
	rec.none(t)
}

func TestSchedulerRestartAfterContextCancel(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(12, 0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, "04:00:00", rec.next(t).Countdown)

	cancel()

	// no Stop in between: once the loop has exited Start succeeds again
	require.Eventually(t, func() bool {
		return s.Start(context.Background()) == nil
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "04:00:00", rec.next(t).Countdown)
	clock.Advance(time.Second)
	assert.Equal(t, "03:59:59", rec.next(t).Countdown)

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestSchedulerSnapshot(t *testing.T) {
	s, clock, rec := newTestScheduler(t, at(20, 0, 0))

	_, ok := s.Snapshot()
	assert.False(t, ok)

	s.UpdateCatalog(makeProducts(8))
	require.NoError(t, s.Start(context.Background()))
	rec.next(t)
	rec.next(t)

	clock.Advance(time.Second)
	u := rec.next(t)

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, u.Countdown, snap.Countdown)
	assert.Equal(t, "03:59:59", snap.Countdown)
	assert.Len(t, snap.Selection, DefaultSelectionSize)
}

func TestSchedulerSelectionSizeOption(t *testing.T) {
	clock := clockwork.NewFakeClockAt(at(9, 0, 0))
	s := NewScheduler(WithClock(clock), WithSelectionSize(3), WithLocation(time.UTC))
	rec := newRecorder()
	s.Subscribe(ListenerFunc(rec.OnFlashSaleUpdate))
	t.Cleanup(s.Stop)

	s.UpdateCatalog(makeProducts(12))
	require.NoError(t, s.Start(context.Background()))

	u := rec.next(t)
	assert.True(t, u.Rotated)
	assert.Len(t, u.Selection, 3)
}
