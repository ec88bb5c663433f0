package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MoisesNEY/hotel-management-system-sub000/models"
	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

// Notifier receives lifecycle events after their transaction committed.
// Implementations must not block the caller and never report errors back.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Booking)
	PaymentConfirmed(ctx context.Context, inv *models.Invoice, b *models.Booking)
}

type NopNotifier struct{}

func (NopNotifier) BookingCreated(context.Context, *models.Booking) {}

func (NopNotifier) PaymentConfirmed(context.Context, *models.Invoice, *models.Booking) {}

type Mailer interface {
	Send(ctx context.Context, m utils.Mail) error
}

// SMTPMailer sends through utils.SendMail and only logs when SMTP is not configured.
type SMTPMailer struct {
	Config utils.SMTPConfig
	Logger *zap.Logger
}

func (m *SMTPMailer) Send(_ context.Context, mail utils.Mail) error {
	err := utils.SendMail(m.Config, mail)
	if errors.Is(err, utils.ErrMailNotConfigured) {
		m.Logger.Info("[MOCK EMAIL]",
			zap.String("to", utils.MaskEmail(mail.To)),
			zap.String("subject", mail.Subject))
		return nil
	}
	return err
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)
	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return nil
}

// NotificationLogStore persists outbound messages.
type NotificationLogStore interface {
	CreateLog(ctx context.Context, l *models.NotificationLog) error
	UpdateLog(ctx context.Context, l *models.NotificationLog) error
	// ListRetryable returns FAILED logs attempted fewer than maxAttempts times, oldest first.
	ListRetryable(ctx context.Context, maxAttempts, limit int) ([]models.NotificationLog, error)
}

type GormNotificationLogStore struct {
	DB *gorm.DB
}

func (s *GormNotificationLogStore) CreateLog(ctx context.Context, l *models.NotificationLog) error {
	if err := s.DB.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}
	return nil
}

func (s *GormNotificationLogStore) UpdateLog(ctx context.Context, l *models.NotificationLog) error {
	if err := s.DB.WithContext(ctx).Model(l).Updates(map[string]interface{}{
		"status":     l.Status,
		"attempts":   l.Attempts,
		"last_error": l.LastError,
	}).Error; err != nil {
		return fmt.Errorf("update notification log %d: %w", l.ID, err)
	}
	return nil
}

func (s *GormNotificationLogStore) ListRetryable(ctx context.Context, maxAttempts, limit int) ([]models.NotificationLog, error) {
	var out []models.NotificationLog
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND attempts < ?", models.NotificationFailed, maxAttempts).
		Order("id").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list retryable notifications: %w", err)
	}
	return out, nil
}

// messagePayload is the JSON stored in NotificationLog.Payload.
type messagePayload struct {
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// NotificationService queues messages and delivers them on a worker goroutine.
// Every message is recorded as a NotificationLog; failed ones are retried by RetryFailed.
type NotificationService struct {
	logs   NotificationLogStore
	mailer Mailer
	sms    SMSSender
	logger *zap.Logger

	MaxAttempts int
	RetryBatch  int

	queue  chan *models.NotificationLog
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	retrying sync.Mutex
}

// NewNotificationService builds the dispatcher; sms may be nil to disable SMS.
func NewNotificationService(logs NotificationLogStore, mailer Mailer, sms SMSSender, logger *zap.Logger, queueSize int) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &NotificationService{
		logs:        logs,
		mailer:      mailer,
		sms:         sms,
		logger:      logger,
		MaxAttempts: 5,
		RetryBatch:  50,
		queue:       make(chan *models.NotificationLog, queueSize),
	}
}

func (s *NotificationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for l := range s.queue {
			ctx := context.Background()
			if err := s.logs.CreateLog(ctx, l); err != nil {
				s.logger.Error("notification log not stored", zap.String("kind", l.Kind), zap.Error(err))
				continue
			}
			s.deliver(ctx, l)
		}
	}()
}

// Stop closes the queue and waits for queued messages to drain.
func (s *NotificationService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) BookingCreated(ctx context.Context, b *models.Booking) {
	id := b.ID
	subject := fmt.Sprintf("Booking received: %s", b.Code)
	text := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We received your booking %s.\n"+
			"Check-In: %s\n"+
			"Check-Out: %s\n"+
			"Rooms: %d\n"+
			"Total: %s\n\n"+
			"Status: %s\n",
		b.Customer.FullName, b.Code,
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout),
		len(b.Items), b.TotalPrice.StringFixed(2), b.Status,
	)
	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>We received your booking <strong>%s</strong>.</p>
<p>Check-In: %s<br>Check-Out: %s<br>Rooms: %d<br>Total: %s</p>`,
		utils.HTMLEscape(b.Customer.FullName), utils.HTMLEscape(b.Code),
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout),
		len(b.Items), b.TotalPrice.StringFixed(2),
	)
	sms := fmt.Sprintf("Booking %s received for %s to %s.", b.Code,
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout))

	s.dispatch(ctx, models.NotificationBookingCreated, b.Customer, &id, nil,
		messagePayload{Subject: subject, Text: text, HTML: html}, sms)
}

func (s *NotificationService) PaymentConfirmed(ctx context.Context, inv *models.Invoice, b *models.Booking) {
	bookingID, invoiceID := b.ID, inv.ID
	subject := fmt.Sprintf("Payment received: %s", inv.Code)
	text := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We received your payment of %s %s for invoice %s (reference %s).\n"+
			"Booking %s is now %s.\n",
		b.Customer.FullName, inv.TotalAmount.StringFixed(2), inv.Currency, inv.Code,
		inv.PaymentReference, b.Code, b.Status,
	)
	sms := fmt.Sprintf("Payment of %s %s received for booking %s.",
		inv.TotalAmount.StringFixed(2), inv.Currency, b.Code)

	s.dispatch(ctx, models.NotificationPaymentConfirmed, b.Customer, &bookingID, &invoiceID,
		messagePayload{Subject: subject, Text: text}, sms)
}

func (s *NotificationService) dispatch(ctx context.Context, kind string, c models.Customer, bookingID, invoiceID *uint, mail messagePayload, sms string) {
	if email := strings.TrimSpace(c.Email); email != "" {
		s.enqueue(ctx, newLog(kind, models.NotificationChannelEmail, email, mail, bookingID, invoiceID))
	}
	if phone := strings.TrimSpace(c.Phone); phone != "" && s.sms != nil {
		s.enqueue(ctx, newLog(kind, models.NotificationChannelSMS, phone, messagePayload{Text: sms}, bookingID, invoiceID))
	}
}

func newLog(kind, channel, recipient string, p messagePayload, bookingID, invoiceID *uint) *models.NotificationLog {
	raw, _ := json.Marshal(p)
	return &models.NotificationLog{
		Kind:      kind,
		Channel:   channel,
		Recipient: recipient,
		Payload:   datatypes.JSON(raw),
		Status:    models.NotificationPending,
		BookingID: bookingID,
		InvoiceID: invoiceID,
	}
}

// enqueue never blocks: when the queue is full or stopped the message is
// stored as FAILED so the retry job picks it up.
func (s *NotificationService) enqueue(ctx context.Context, l *models.NotificationLog) {
	if s.offer(l) {
		return
	}
	l.Status = models.NotificationFailed
	l.LastError = "notification queue unavailable"
	if err := s.logs.CreateLog(ctx, l); err != nil {
		s.logger.Error("notification dropped", zap.String("kind", l.Kind), zap.Error(err))
		return
	}
	s.logger.Warn("notification deferred to retry", zap.String("kind", l.Kind), zap.Uint("log_id", l.ID))
}

func (s *NotificationService) offer(l *models.NotificationLog) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- l:
		return true
	default:
		return false
	}
}

func (s *NotificationService) deliver(ctx context.Context, l *models.NotificationLog) bool {
	var p messagePayload
	err := json.Unmarshal(l.Payload, &p)
	if err == nil {
		switch l.Channel {
		case models.NotificationChannelEmail:
			err = s.mailer.Send(ctx, utils.Mail{To: l.Recipient, Subject: p.Subject, Text: p.Text, HTML: p.HTML})
		case models.NotificationChannelSMS:
			if s.sms == nil {
				err = errors.New("sms channel disabled")
			} else {
				err = s.sms.SendSMS(ctx, l.Recipient, p.Text)
			}
		default:
			err = fmt.Errorf("unknown channel %q", l.Channel)
		}
	}

	l.Attempts++
	if err != nil {
		l.Status = models.NotificationFailed
		l.LastError = err.Error()
		s.logger.Warn("notification failed",
			zap.Uint("log_id", l.ID),
			zap.String("kind", l.Kind),
			zap.String("channel", l.Channel),
			zap.Int("attempts", l.Attempts),
			zap.Error(err))
	} else {
		l.Status = models.NotificationSent
		l.LastError = ""
	}
	if uerr := s.logs.UpdateLog(ctx, l); uerr != nil {
		s.logger.Error("notification log not updated", zap.Uint("log_id", l.ID), zap.Error(uerr))
	}
	return err == nil
}

// RetryFailed re-sends FAILED notifications that still have attempts left and
// returns how many went through. A call made while another run is in progress
// returns immediately.
func (s *NotificationService) RetryFailed(ctx context.Context) (int, error) {
	if !s.retrying.TryLock() {
		return 0, nil
	}
	defer s.retrying.Unlock()

	logs, err := s.logs.ListRetryable(ctx, s.MaxAttempts, s.RetryBatch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range logs {
		if s.deliver(ctx, &logs[i]) {
			sent++
		}
	}
	return sent, nil
}

// StartRetryScheduler runs RetryFailed on the given cron schedule until the returned cron is stopped.
func (s *NotificationService) StartRetryScheduler(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(zap.NewStdLog(s.logger))),
	))
	if _, err := c.AddFunc(schedule, func() {
		sent, err := s.RetryFailed(context.Background())
		if err != nil {
			s.logger.Error("notification retry failed", zap.Error(err))
			return
		}
		if sent > 0 {
			s.logger.Info("notifications retried", zap.Int("sent", sent))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule notification retry %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info("notification retry scheduler started", zap.String("schedule", schedule))
	return c, nil
}
