package scheduler

import (
	"context"
	"testing"
	"time"

	"lunch/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeCounter) DailyOfficeCount(ctx context.Context, day string) (int, error) {
	f.calls++
	return f.count, f.err
}

type fakeDirectory struct {
	chefs []string
	err   error
}

func (f *fakeDirectory) ChefEmails(ctx context.Context) ([]string, error) {
	return f.chefs, f.err
}

type fakeAudit struct {
	entries []entity.Notification
	has     bool
	hasErr  error
}

func (f *fakeAudit) Append(ctx context.Context, entry entity.Notification) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) HasForDay(ctx context.Context, day, notificationType string) (bool, error) {
	return f.has, f.hasErr
}

type fakeSender struct {
	failFor map[string]bool
	sent    []string
	done    chan struct{}
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, to)
	if f.done != nil {
		close(f.done)
	}
	if f.failFor[to] {
		return errors.New("smtp relay unavailable")
	}
	return nil
}

type fixture struct {
	counter   *fakeCounter
	directory *fakeDirectory
	audit     *fakeAudit
	sender    *fakeSender
	sched     *Scheduler
}

func newFixture(t *testing.T, now time.Time, chefs []string) *fixture {
	t.Helper()

	f := &fixture{
		counter:   &fakeCounter{count: 7},
		directory: &fakeDirectory{chefs: chefs},
		audit:     &fakeAudit{},
		sender:    &fakeSender{},
	}
	f.sched = New(f.counter, f.directory, f.audit, f.sender, zap.NewNop().Sugar(), Config{
		CutoffHour:   9,
		CutoffMinute: 30,
		Location:     time.UTC,
		Tick:         time.Hour,
		Now:          func() time.Time { return now },
	})
	return f
}

func TestMaybeRunDispatchesPastCutoff(t *testing.T) {
	// Monday 2024-01-08, one minute past the cutoff.
	now := time.Date(2024, 1, 8, 9, 31, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	f.sched.maybeRun(context.Background())

	require.Equal(t, []string{"chef@lunch.local"}, f.sender.sent)
	require.Len(t, f.audit.entries, 1)

	entry := f.audit.entries[0]
	require.Equal(t, entity.NotificationTypeDailyCount, entry.Type)
	require.Equal(t, "chef@lunch.local", entry.Recipient)
	require.Equal(t, 7, entry.OfficeCount)
	require.Equal(t, entity.NotificationSent, entry.Status)
	require.Contains(t, entry.Content, "7 employees")
}

func TestMaybeRunFiresAtExactCutoff(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	f.sched.maybeRun(context.Background())
	require.Len(t, f.sender.sent, 1)
}

func TestMaybeRunBeforeCutoff(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 29, 59, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	f.sched.maybeRun(context.Background())

	require.Empty(t, f.sender.sent)
	require.Zero(t, f.counter.calls)
}

func TestMaybeRunSkipsWeekend(t *testing.T) {
	saturday := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, saturday, []string{"chef@lunch.local"})

	f.sched.maybeRun(context.Background())

	require.Empty(t, f.sender.sent)
	require.Zero(t, f.counter.calls)
}

func TestMaybeRunOncePerDay(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	f.sched.maybeRun(context.Background())
	f.sched.maybeRun(context.Background())
	f.sched.maybeRun(context.Background())

	require.Len(t, f.sender.sent, 1)
	require.Equal(t, 1, f.counter.calls)
}

func TestMaybeRunSkipsWhenAlreadyLogged(t *testing.T) {
	// A restarted process finds today's rows in the log and stands down.
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})
	f.audit.has = true

	f.sched.maybeRun(context.Background())

	require.Empty(t, f.sender.sent)
	require.Zero(t, f.counter.calls)
}

func TestMaybeRunSkipsWhileDispatchRunning(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	f.sched.mu.Lock()
	f.sched.maybeRun(context.Background())
	f.sched.mu.Unlock()

	require.Empty(t, f.sender.sent)
}

func TestDispatchRecordsFailure(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"a@lunch.local", "b@lunch.local"})
	f.sender.failFor = map[string]bool{"a@lunch.local": true}

	f.sched.maybeRun(context.Background())

	require.Len(t, f.audit.entries, 2)
	require.Equal(t, entity.NotificationFailed, f.audit.entries[0].Status)
	require.Equal(t, entity.NotificationSent, f.audit.entries[1].Status)
}

func TestDispatchNoChefs(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, nil)

	f.sched.maybeRun(context.Background())

	require.Empty(t, f.audit.entries)
}

func TestDispatchCounterError(t *testing.T) {
	now := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})
	f.counter.err = errors.New("database unavailable")

	f.sched.maybeRun(context.Background())

	require.Empty(t, f.sender.sent)
	require.Empty(t, f.audit.entries)

	// The failed day is not marked done, so the next tick retries.
	f.counter.err = nil
	f.sched.maybeRun(context.Background())
	require.Len(t, f.sender.sent, 1)
}

func TestStartSuppressesMissedCutoff(t *testing.T) {
	// Started at noon with catch-up disabled: today's trigger already
	// passed, so nothing fires until tomorrow.
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.sched.Start(ctx)

	f.sched.mu.Lock()
	lastRun := f.sched.lastRun
	f.sched.mu.Unlock()
	require.Equal(t, "2024-01-08", lastRun)
}

func TestStartCatchesUpWhenEnabled(t *testing.T) {
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now, []string{"chef@lunch.local"})
	f.sched.cfg.CatchUpOnStart = true
	f.sender.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.sched.Start(ctx)

	select {
	case <-f.sender.done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a catch-up dispatch after start")
	}
}

func TestMessageFormat(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC)
	subject, body := message(now, 12)

	require.Equal(t, "Daily Lunch Count - January 08, 2024", subject)
	require.Contains(t, body, "Dear Chef,")
	require.Contains(t, body, "Today's office attendance count: 12 employees")
	require.Contains(t, body, "Date: January 08, 2024")
	require.Contains(t, body, "Time: 09:30 AM")
}
