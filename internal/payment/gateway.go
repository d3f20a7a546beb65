// Package payment simulates the payment collaborator. Every accepted charge is
// recorded as an append-only transaction credited to the owner account.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/repository"
)

// ChargeRequest carries one checkout payment.
type ChargeRequest struct {
	UserID        string
	CourseID      string
	Amount        float64
	Currency      string
	PaymentMethod domain.PaymentMethod
	UPIID         string
}

// Gateway charges a payer and records the resulting transaction.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*domain.Transaction, error)
}

// SimulatedGateway accepts every well-formed charge.
type SimulatedGateway struct {
	transactions       repository.TransactionRepository
	dispatcher         events.Dispatcher
	logger             *zap.Logger
	destinationAccount string
	defaultCurrency    string
}

// NewSimulatedGateway builds the gateway.
func NewSimulatedGateway(transactions repository.TransactionRepository, dispatcher events.Dispatcher, logger *zap.Logger, destinationAccount, defaultCurrency string) *SimulatedGateway {
	return &SimulatedGateway{
		transactions:       transactions,
		dispatcher:         dispatcher,
		logger:             logger,
		destinationAccount: destinationAccount,
		defaultCurrency:    defaultCurrency,
	}
}

// Charge validates the payment details and records a SUCCESS transaction.
// Malformed details are reported as ErrPaymentDeclined.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*domain.Transaction, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount", domain.ErrPaymentDeclined)
	}

	txn := &domain.Transaction{
		Reference:            "txn_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:               req.UserID,
		CourseID:             req.CourseID,
		Amount:               req.Amount,
		Currency:             req.Currency,
		PaymentMethod:        req.PaymentMethod,
		DestinationAccount:   g.destinationAccount,
		Status:               domain.TransactionStatusSuccess,
		OwnerAccountCredited: true,
		CreatedAt:            time.Now().UTC(),
	}
	if txn.Currency == "" {
		txn.Currency = g.defaultCurrency
	}

	switch req.PaymentMethod {
	case domain.PaymentMethodCard:
	case domain.PaymentMethodUPI:
		upi := strings.TrimSpace(req.UPIID)
		if !strings.Contains(upi, "@") {
			return nil, fmt.Errorf("%w: invalid UPI id", domain.ErrPaymentDeclined)
		}
		txn.PayerUPIID = upi
	default:
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrPaymentDeclined, req.PaymentMethod)
	}

	if err := g.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	g.logger.Info("payment recorded",
		zap.String("transaction_id", txn.Reference),
		zap.String("user_id", txn.UserID),
		zap.String("course_id", txn.CourseID),
		zap.Float64("amount", txn.Amount),
		zap.String("destination", txn.DestinationAccount))

	if g.dispatcher != nil {
		event := events.New(events.EventPaymentRecorded, txn.UserID, txn.CourseID, events.PaymentRecordedPayload{
			TransactionID:      txn.Reference,
			Amount:             txn.Amount,
			Currency:           txn.Currency,
			PaymentMethod:      string(txn.PaymentMethod),
			DestinationAccount: txn.DestinationAccount,
		})
		if err := g.dispatcher.Publish(ctx, event); err != nil {
			g.logger.Warn("payment event handlers failed", zap.Error(err))
		}
	}
	return txn, nil
}
