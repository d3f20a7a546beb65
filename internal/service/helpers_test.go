package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/otp"
	"github.com/zeroclasses/coaching-service/internal/payment"
	"github.com/zeroclasses/coaching-service/internal/rate"
	"github.com/zeroclasses/coaching-service/internal/repository"
	"github.com/zeroclasses/coaching-service/internal/repository/memstore"
)

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

// outbox records email and SMS deliveries.
type outbox struct {
	mu   sync.Mutex
	sent []sentMessage
	fail error
}

func (o *outbox) Send(_ context.Context, to, subject, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.sent = append(o.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (o *outbox) SendSMS(ctx context.Context, to, message string) error {
	return o.Send(ctx, to, "", message)
}

// lastCode returns the most recent code delivered to to.
func (o *outbox) lastCode(to string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == to {
			return strings.TrimPrefix(o.sent[i].Body, "Your OTP is: ")
		}
	}
	return ""
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	store        repository.Store
	ledger       *otp.MemoryLedger
	clock        *clock
	email        *outbox
	sms          *outbox
	tokens       *auth.TokenManager
	dispatcher   events.Dispatcher
	verification *VerificationService
	enrollments  *EnrollmentService
	checkout     *CheckoutService
	catalog      *CatalogService
	users        *UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:      memstore.New(),
		clock:      &clock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		email:      &outbox{},
		sms:        &outbox{},
		tokens:     auth.NewTokenManager("test-secret", 60, 10),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	h.ledger = otp.NewMemoryLedger(otp.Options{TTL: 5 * time.Minute, Clock: h.clock.Now})

	logger := zap.NewNop()
	h.verification = NewVerificationService(VerificationDependencies{
		Users:     h.store.Users,
		Ledger:    h.ledger,
		Limiter:   rate.NewMemoryLimiter(3, time.Minute),
		Email:     h.email,
		SMS:       h.sms,
		Tokens:    h.tokens,
		Passwords: auth.PlainChecker{},
		Logger:    logger,
	})
	h.enrollments = NewEnrollmentService(h.store.Users, h.dispatcher, nil, logger)
	gateway := payment.NewSimulatedGateway(h.store.Transactions, h.dispatcher, logger, "9661778393@ikwik", "INR")
	h.checkout = NewCheckoutService(h.store.Courses, gateway, h.enrollments, logger)
	h.catalog = NewCatalogService(h.store.Courses, h.store.Materials)
	h.users = NewUserService(h.store.Users, logger)
	return h
}
