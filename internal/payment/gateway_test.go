package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/repository/memstore"
)

func TestChargeRecordsTransaction(t *testing.T) {
	ctx := context.Background()
	txns := memstore.NewTransactionRepository()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventPaymentRecorded, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	gw := NewSimulatedGateway(txns, dispatcher, zap.NewNop(), "9661778393@ikwik", "INR")

	txn, err := gw.Charge(ctx, ChargeRequest{
		UserID:        "u1",
		CourseID:      "c1",
		Amount:        49.99,
		PaymentMethod: domain.PaymentMethodUPI,
		UPIID:         "student@okbank",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txn.Reference, "txn_"))
	assert.Equal(t, "9661778393@ikwik", txn.DestinationAccount)
	assert.Equal(t, "INR", txn.Currency)
	assert.Equal(t, domain.TransactionStatusSuccess, txn.Status)
	assert.True(t, txn.OwnerAccountCredited)
	assert.Equal(t, "student@okbank", txn.PayerUPIID)

	stored, err := txns.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, txn.Reference, stored[0].Reference)

	require.Len(t, published, 1)
	assert.Equal(t, "c1", published[0].CourseID)
}

func TestChargeDeclinesMalformedDetails(t *testing.T) {
	tests := []struct {
		name string
		req  ChargeRequest
	}{
		{name: "upi without at sign", req: ChargeRequest{PaymentMethod: domain.PaymentMethodUPI, UPIID: "student"}},
		{name: "upi missing id", req: ChargeRequest{PaymentMethod: domain.PaymentMethodUPI}},
		{name: "unknown method", req: ChargeRequest{PaymentMethod: "CASH"}},
		{name: "negative amount", req: ChargeRequest{PaymentMethod: domain.PaymentMethodCard, Amount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := memstore.NewTransactionRepository()
			gw := NewSimulatedGateway(txns, nil, zap.NewNop(), "owner@bank", "INR")

			_, err := gw.Charge(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrPaymentDeclined)

			stored, err := txns.ListByUser(context.Background(), tt.req.UserID)
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestCardChargeDropsUPIID(t *testing.T) {
	gw := NewSimulatedGateway(memstore.NewTransactionRepository(), nil, zap.NewNop(), "owner@bank", "INR")

	txn, err := gw.Charge(context.Background(), ChargeRequest{UserID: "u1", CourseID: "c1", Currency: "USD", PaymentMethod: domain.PaymentMethodCard, UPIID: "x@y"})
	require.NoError(t, err)
	assert.Empty(t, txn.PayerUPIID)
	assert.Equal(t, "USD", txn.Currency)
}
