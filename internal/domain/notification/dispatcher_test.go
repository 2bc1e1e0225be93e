package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laborhub/internal/domain"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	err     error
	started chan struct{}
	release chan struct{}
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	envs []Envelope
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.envs = append(p.envs, v.(Envelope))
	return nil
}

func TestDispatcher_DeliversEveryKind(t *testing.T) {
	db := openTestDB(t)
	pusher := &fakePusher{}
	svc := NewService(NewRepository(db), pusher, nil)
	mailer := &fakeMailer{}
	pub := &fakePublisher{}

	d := NewDispatcher(svc, mailer, pub, DispatcherConfig{QueueSize: 8, Timeout: time.Second}, zap.NewNop())
	d.Dispatch(
		domain.Notify(3, domain.RoleCustomer, "Aziz accepted your booking", domain.SeveritySuccess, "/payments/new?bookingId=1"),
		domain.Email("dana@example.com", "Payment received", "body"),
		domain.Email("", "skipped", "no recipient"),
		domain.Publish(domain.EventBookingAccepted, 1, map[string]int{"booking_id": 1}),
	)
	d.Close()

	var stored []domain.Notification
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(3), stored[0].RecipientID)
	assert.Len(t, pusher.events, 1)

	require.Equal(t, 1, mailer.count())
	assert.Equal(t, "dana@example.com", mailer.sent[0].to)

	require.Len(t, pub.keys, 1)
	assert.Equal(t, domain.EventBookingAccepted, pub.keys[0])
	assert.Equal(t, int64(1), pub.envs[0].AggregateID)
}

func TestDispatcher_FailureDoesNotStopQueue(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepository(db), nil, nil)
	mailer := &fakeMailer{err: errors.New("smtp down")}

	d := NewDispatcher(svc, mailer, nil, DispatcherConfig{}, zap.NewNop())
	d.Dispatch(
		domain.Email("a@example.com", "s", "b"),
		domain.Publish(domain.EventBookingCreated, 1, nil),
		domain.Notify(1, domain.RoleLabor, "still delivered", domain.SeverityInfo, ""),
	)
	d.Close()

	assert.Equal(t, 1, mailer.count())
	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	mailer := &fakeMailer{started: make(chan struct{}, 4), release: make(chan struct{})}
	d := NewDispatcher(nil, mailer, nil, DispatcherConfig{QueueSize: 1}, zap.NewNop())

	d.Dispatch(domain.Email("first@example.com", "s", "b"))
	<-mailer.started // worker is busy with the first mail

	d.Dispatch(
		domain.Email("second@example.com", "s", "b"),
		domain.Email("third@example.com", "s", "b"),
	)
	close(mailer.release)
	d.Close()

	assert.Equal(t, 2, mailer.count())

	// closed dispatcher drops silently
	d.Dispatch(domain.Email("late@example.com", "s", "b"))
	assert.Equal(t, 2, mailer.count())
}
