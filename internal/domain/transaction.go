package domain

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod enumerates accepted simulated payment methods.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodUPI  PaymentMethod = "UPI"
)

// ParsePaymentMethod validates payment method input.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	value := PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	switch value {
	case PaymentMethodCard, PaymentMethodUPI:
		return value, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
}

// TransactionStatus describes the outcome of a recorded payment.
type TransactionStatus string

const TransactionStatusSuccess TransactionStatus = "SUCCESS"

// Transaction is an append-only record of a simulated payment.
type Transaction struct {
	ID                   string
	Reference            string
	UserID               string
	CourseID             string
	Amount               float64
	Currency             string
	PaymentMethod        PaymentMethod
	PayerUPIID           string
	DestinationAccount   string
	Status               TransactionStatus
	OwnerAccountCredited bool
	CreatedAt            time.Time
}
