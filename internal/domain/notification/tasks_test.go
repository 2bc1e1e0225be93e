package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laborhub/internal/domain"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option

	// fails the n-th call (1-based); zero never fails
	failOn int
	calls  int
}

func (e *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.calls++
	if e.calls == e.failOn {
		return nil, errors.New("redis unavailable")
	}
	e.tasks = append(e.tasks, task)
	e.opts = append(e.opts, opts)
	return &asynq.TaskInfo{ID: "t", Queue: QueueEffects, Type: task.Type()}, nil
}

type fakeCron struct {
	spec  string
	task  *asynq.Task
	opts  []asynq.Option
	err   error
	calls int
}

func (c *fakeCron) Register(spec string, task *asynq.Task, opts ...asynq.Option) (string, error) {
	c.calls++
	c.spec, c.task, c.opts = spec, task, opts
	return "entry-1", c.err
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) any {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value()
		}
	}
	return nil
}

func TestTaskQueue_EnqueuesEachEffect(t *testing.T) {
	enq := &fakeEnqueuer{}
	q := NewTaskQueue(enq, TaskQueueConfig{MaxRetry: 3, Timeout: 5 * time.Second}, zap.NewNop())

	q.Dispatch(
		domain.Notify(3, domain.RoleCustomer, "Aziz accepted your booking", domain.SeveritySuccess, "/payments/new?bookingId=1"),
		domain.Email("dana@example.com", "Payment received", "body"),
	)

	require.Len(t, enq.tasks, 2)
	for i, task := range enq.tasks {
		assert.Equal(t, TypeDeliverEffect, task.Type())
		assert.Equal(t, QueueEffects, optionValue(enq.opts[i], asynq.QueueOpt))
		assert.Equal(t, 3, optionValue(enq.opts[i], asynq.MaxRetryOpt))
		assert.Equal(t, 5*time.Second, optionValue(enq.opts[i], asynq.TimeoutOpt))
	}

	var e domain.Effect
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &e))
	assert.Equal(t, domain.EffectNotify, e.Kind)
	assert.Equal(t, int64(3), e.RecipientID)
	assert.Equal(t, "/payments/new?bookingId=1", e.Link)

	require.NoError(t, json.Unmarshal(enq.tasks[1].Payload(), &e))
	assert.Equal(t, "dana@example.com", e.To)
}

func TestTaskQueue_EnqueueFailureSkipsOnlyThatEffect(t *testing.T) {
	enq := &fakeEnqueuer{failOn: 1}
	q := NewTaskQueue(enq, TaskQueueConfig{}, nil)

	q.Dispatch(
		domain.Email("lost@example.com", "s", "b"),
		domain.Publish(domain.EventBookingCreated, 9, map[string]int{"booking_id": 9}),
	)

	assert.Equal(t, 2, enq.calls)
	require.Len(t, enq.tasks, 1)
	var e domain.Effect
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &e))
	assert.Equal(t, domain.EventBookingCreated, e.Event)
	assert.Equal(t, int64(9), e.AggregateID)
}

func TestTaskHandler_HandleEffect(t *testing.T) {
	db := openTestDB(t)
	pusher := &fakePusher{}
	svc := NewService(NewRepository(db), pusher, nil)
	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	h := NewTaskHandler(NewDeliverer(svc, mailer, pub, zap.NewNop()), nil)
	ctx := context.Background()

	for _, e := range []domain.Effect{
		domain.Notify(3, domain.RoleCustomer, "Your booking was completed", domain.SeverityInfo, "/bookings/1"),
		domain.Email("dana@example.com", "Payment received", "body"),
		domain.Publish(domain.EventPaymentPaid, 4, map[string]int{"payment_id": 4}),
	} {
		task, err := NewEffectTask(e)
		require.NoError(t, err)
		require.NoError(t, h.HandleEffect(ctx, task))
	}

	var stored []domain.Notification
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "Your booking was completed", stored[0].Message)
	assert.Len(t, pusher.events, 1)

	require.Equal(t, 1, mailer.count())
	assert.Equal(t, "Payment received", mailer.sent[0].subject)

	require.Len(t, pub.keys, 1)
	assert.Equal(t, domain.EventPaymentPaid, pub.keys[0])
	assert.Equal(t, int64(4), pub.envs[0].AggregateID)
}

func TestTaskHandler_HandleEffectErrors(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	h := NewTaskHandler(NewDeliverer(nil, mailer, nil, zap.NewNop()), nil)
	ctx := context.Background()

	t.Run("delivery failure is retried", func(t *testing.T) {
		task, err := NewEffectTask(domain.Email("a@example.com", "s", "b"))
		require.NoError(t, err)
		err = h.HandleEffect(ctx, task)
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("bad payload is not retried", func(t *testing.T) {
		err := h.HandleEffect(ctx, asynq.NewTask(TypeDeliverEffect, []byte("{not json")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := h.HandleEffect(ctx, asynq.NewTask(TypeDeliverEffect, []byte(`{"kind":"fax"}`)))
		assert.ErrorContains(t, err, "unknown effect kind")
	})
}

func TestTaskHandler_HandleCleanup(t *testing.T) {
	db := openTestDB(t)
	purger := &fakePurger{}
	cleanup := NewCleanupService(NewService(NewRepository(db), nil, nil), purger, zap.NewNop())
	h := NewTaskHandler(NewDeliverer(nil, nil, nil, nil), cleanup)

	task, err := NewCleanupTask(CleanupConfig{
		NotificationRetention: 30 * 24 * time.Hour,
		HistoryRetention:      365 * 24 * time.Hour,
		Interval:              time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, TypeCleanup, task.Type())

	require.NoError(t, h.HandleCleanup(context.Background(), task))
	assert.Equal(t, 1, purger.calls)
	assert.WithinDuration(t, time.Now().UTC().Add(-365*24*time.Hour), purger.before, time.Minute)

	assert.ErrorIs(t, h.HandleCleanup(context.Background(), asynq.NewTask(TypeCleanup, []byte("x"))), asynq.SkipRetry)
}

func TestTaskHandler_Register(t *testing.T) {
	mux := asynq.NewServeMux()
	NewTaskHandler(NewDeliverer(nil, nil, nil, nil), nil).Register(mux)

	_, pattern := mux.Handler(asynq.NewTask(TypeDeliverEffect, nil))
	assert.Equal(t, TypeDeliverEffect, pattern)
	_, pattern = mux.Handler(asynq.NewTask(TypeCleanup, nil))
	assert.Equal(t, TypeCleanup, pattern)
}

func TestRegisterPeriodic(t *testing.T) {
	cfg := CleanupConfig{NotificationRetention: time.Hour, HistoryRetention: 2 * time.Hour, Interval: 24 * time.Hour}

	cron := &fakeCron{}
	require.NoError(t, RegisterPeriodic(cron, cfg, zap.NewNop()))
	assert.Equal(t, "@every 24h0m0s", cron.spec)
	assert.Equal(t, TypeCleanup, cron.task.Type())
	assert.Equal(t, QueueMaintenance, optionValue(cron.opts, asynq.QueueOpt))

	var p cleanupPayload
	require.NoError(t, json.Unmarshal(cron.task.Payload(), &p))
	assert.Equal(t, time.Hour, p.NotificationRetention)
	assert.Equal(t, 2*time.Hour, p.HistoryRetention)

	disabled := &fakeCron{}
	cfg.Interval = 0
	require.NoError(t, RegisterPeriodic(disabled, cfg, zap.NewNop()))
	assert.Zero(t, disabled.calls)

	failing := &fakeCron{err: errors.New("redis unavailable")}
	cfg.Interval = time.Hour
	assert.ErrorContains(t, RegisterPeriodic(failing, cfg, zap.NewNop()), "register cleanup")
}
