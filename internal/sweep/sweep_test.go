package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/todobot/internal/api"
)

type fakeSource struct {
	tasks []api.Task
	err   error
}

func (f *fakeSource) ListTasks(context.Context) ([]api.Task, error) {
	return f.tasks, f.err
}

type recordingNotifier struct {
	notified []string
	err      error
}

func (r *recordingNotifier) NotifyOverdue(_ context.Context, task api.Task) error {
	r.notified = append(r.notified, task.ID)
	return r.err
}

func testTime() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func hoursFromNow(h int) *time.Time {
	t := testTime().Add(time.Duration(h) * time.Hour)
	return &t
}

func TestSweepNotifiesOnlyOverdue(t *testing.T) {
	src := &fakeSource{tasks: []api.Task{
		{ID: "overdue", DueDate: hoursFromNow(-1)},
		{ID: "completed", DueDate: hoursFromNow(-1), Completed: true},
		{ID: "future", DueDate: hoursFromNow(1)},
		{ID: "no due date"},
	}}
	notifier := &recordingNotifier{}
	s := New(src, notifier, time.Minute)
	s.now = testTime

	s.sweep(context.Background())
	assert.Equal(t, []string{"overdue"}, notifier.notified)
}

func TestSweepIgnoresStaleOverdueFlag(t *testing.T) {
	// The listing may carry a stale IsOverdue computed earlier; the sweeper
	// decides from the due date itself.
	src := &fakeSource{tasks: []api.Task{
		{ID: "flagged but future", DueDate: hoursFromNow(2), IsOverdue: true},
		{ID: "unflagged but late", DueDate: hoursFromNow(-2), IsOverdue: false},
	}}
	notifier := &recordingNotifier{}
	s := New(src, notifier, time.Minute)
	s.now = testTime

	s.sweep(context.Background())
	assert.Equal(t, []string{"unflagged but late"}, notifier.notified)
}

func TestSweepListFailureSkipsCycle(t *testing.T) {
	src := &fakeSource{err: &api.Failure{Kind: api.FailureTransport, Message: "down"}}
	notifier := &recordingNotifier{}
	s := New(src, notifier, time.Minute)
	s.now = testTime

	s.sweep(context.Background())
	assert.Empty(t, notifier.notified)
}

func TestSweepNotifyFailureContinues(t *testing.T) {
	src := &fakeSource{tasks: []api.Task{
		{ID: "a", DueDate: hoursFromNow(-1)},
		{ID: "b", DueDate: hoursFromNow(-2)},
	}}
	notifier := &recordingNotifier{err: assert.AnError}
	s := New(src, notifier, time.Minute)
	s.now = testTime

	s.sweep(context.Background())
	assert.Equal(t, []string{"a", "b"}, notifier.notified)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := &fakeSource{}
	s := New(src, &recordingNotifier{}, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
