package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type memLogStore struct {
	mu   sync.Mutex
	logs map[uint]models.NotificationLog
	next uint
}

func newMemLogStore() *memLogStore {
	return &memLogStore{logs: map[uint]models.NotificationLog{}}
}

func (s *memLogStore) CreateLog(_ context.Context, l *models.NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	l.ID = s.next
	s.logs[l.ID] = *l
	return nil
}

func (s *memLogStore) UpdateLog(_ context.Context, l *models.NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[l.ID] = *l
	return nil
}

func (s *memLogStore) ListRetryable(_ context.Context, maxAttempts, limit int) ([]models.NotificationLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NotificationLog
	for id := uint(1); id <= s.next && len(out) < limit; id++ {
		l, ok := s.logs[id]
		if ok && l.Status == models.NotificationFailed && l.Attempts < maxAttempts {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memLogStore) all() []models.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.NotificationLog, 0, len(s.logs))
	for id := uint(1); id <= s.next; id++ {
		if l, ok := s.logs[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []utils.Mail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, mail utils.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+": "+body)
	return nil
}

func notifiedBooking() *models.Booking {
	b := &models.Booking{
		ID:           7,
		Code:         "BK-20250501-ABCD1234",
		CheckInDate:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		Status:       models.BookingStatusPendingApproval,
		TotalPrice:   dec("100.00"),
		Customer:     models.Customer{FullName: "Ana <b>", Email: "ana@example.com", Phone: "+15550001"},
		Items:        []models.BookingItem{{RoomTypeID: 1}},
	}
	return b
}

func TestNotificationService_BookingCreated_DeliversBothChannels(t *testing.T) {
	logs, mailer, sms := newMemLogStore(), &fakeMailer{}, &fakeSMS{}
	svc := NewNotificationService(logs, mailer, sms, zap.NewNop(), 10)
	svc.Start()

	svc.BookingCreated(context.Background(), notifiedBooking())
	require.NoError(t, svc.Stop(context.Background()))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].To)
	assert.Equal(t, "Booking received: BK-20250501-ABCD1234", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Text, "Check-In: 2025-05-01")
	assert.Contains(t, mailer.sent[0].HTML, "Ana &lt;b&gt;")
	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0], "+15550001: Booking BK-20250501-ABCD1234")

	stored := logs.all()
	require.Len(t, stored, 2)
	for _, l := range stored {
		assert.Equal(t, models.NotificationSent, l.Status)
		assert.Equal(t, 1, l.Attempts)
		require.NotNil(t, l.BookingID)
		assert.Equal(t, uint(7), *l.BookingID)
	}
}

func TestNotificationService_SkipsSMSWhenDisabled(t *testing.T) {
	logs, mailer := newMemLogStore(), &fakeMailer{}
	svc := NewNotificationService(logs, mailer, nil, zap.NewNop(), 10)
	svc.Start()

	svc.BookingCreated(context.Background(), notifiedBooking())
	require.NoError(t, svc.Stop(context.Background()))

	stored := logs.all()
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationChannelEmail, stored[0].Channel)
}

func TestNotificationService_FailureIsRetried(t *testing.T) {
	logs, mailer := newMemLogStore(), &fakeMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(logs, mailer, nil, zap.NewNop(), 10)
	svc.Start()

	inv := &models.Invoice{ID: 3, Code: "INV-1", Currency: "USD", TotalAmount: dec("115.00"), PaymentReference: "TX-1"}
	svc.PaymentConfirmed(context.Background(), inv, notifiedBooking())
	require.NoError(t, svc.Stop(context.Background()))

	stored := logs.all()
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationFailed, stored[0].Status)
	assert.Equal(t, "smtp down", stored[0].LastError)
	require.NotNil(t, stored[0].InvoiceID)
	assert.Equal(t, uint(3), *stored[0].InvoiceID)

	var payload messagePayload
	require.NoError(t, json.Unmarshal(stored[0].Payload, &payload))
	assert.Equal(t, "Payment received: INV-1", payload.Subject)

	mailer.err = nil
	sent, err := svc.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, models.NotificationSent, logs.all()[0].Status)
	assert.Equal(t, 2, logs.all()[0].Attempts)
}

func TestNotificationService_RetryStopsAtMaxAttempts(t *testing.T) {
	logs, mailer := newMemLogStore(), &fakeMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(logs, mailer, nil, zap.NewNop(), 10)
	svc.MaxAttempts = 2
	ctx := context.Background()
	l := newLog(models.NotificationBookingCreated, models.NotificationChannelEmail,
		"ana@example.com", messagePayload{Text: "hi"}, nil, nil)
	l.Status = models.NotificationFailed
	require.NoError(t, logs.CreateLog(ctx, l))

	for i := 0; i < 4; i++ {
		sent, err := svc.RetryFailed(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	}

	assert.Equal(t, 2, logs.all()[0].Attempts)
}

func TestNotificationService_EnqueueAfterStop(t *testing.T) {
	logs, mailer := newMemLogStore(), &fakeMailer{}
	svc := NewNotificationService(logs, mailer, nil, zap.NewNop(), 1)
	svc.Start()
	require.NoError(t, svc.Stop(context.Background()))

	svc.BookingCreated(context.Background(), notifiedBooking())

	stored := logs.all()
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationFailed, stored[0].Status)
	assert.Equal(t, "notification queue unavailable", stored[0].LastError)
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_FullQueueDefersToRetry(t *testing.T) {
	logs, mailer, sms := newMemLogStore(), &fakeMailer{}, &fakeSMS{}
	svc := NewNotificationService(logs, mailer, sms, zap.NewNop(), 1)

	// worker not started: the mail fills the queue, the SMS overflows
	svc.BookingCreated(context.Background(), notifiedBooking())

	stored := logs.all()
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationChannelSMS, stored[0].Channel)
	assert.Equal(t, models.NotificationFailed, stored[0].Status)
	assert.Equal(t, "notification queue unavailable", stored[0].LastError)

	sent, err := svc.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, sms.sent, 1)
}

func TestNotificationService_RetrySkipsWhileRunning(t *testing.T) {
	logs, mailer := newMemLogStore(), &fakeMailer{}
	svc := NewNotificationService(logs, mailer, nil, zap.NewNop(), 1)
	ctx := context.Background()
	l := newLog(models.NotificationBookingCreated, models.NotificationChannelEmail,
		"ana@example.com", messagePayload{Text: "hi"}, nil, nil)
	l.Status = models.NotificationFailed
	require.NoError(t, logs.CreateLog(ctx, l))

	svc.retrying.Lock()
	sent, err := svc.RetryFailed(ctx)
	svc.retrying.Unlock()

	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mailer.sent)
	assert.Zero(t, logs.all()[0].Attempts)

	sent, err = svc.RetryFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestNotificationService_RetryScheduler(t *testing.T) {
	svc := NewNotificationService(newMemLogStore(), &fakeMailer{}, nil, zap.NewNop(), 1)

	_, err := svc.StartRetryScheduler("not a schedule")
	assert.Error(t, err)

	c, err := svc.StartRetryScheduler("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func TestSMTPMailer_UnconfiguredIsLogged(t *testing.T) {
	m := &SMTPMailer{Logger: zap.NewNop()}

	err := m.Send(context.Background(), utils.Mail{To: "ana@example.com", Subject: "hi", Text: "hello"})

	assert.NoError(t, err)
}
