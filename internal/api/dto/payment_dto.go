package dto

import (
	"time"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// CheckoutRequest pays for a course. The payer is always the caller.
type CheckoutRequest struct {
	CourseID      string  `json:"courseId" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	UPIID         string  `json:"upiId"`
}

// TransactionResponse is the public view of a recorded payment.
type TransactionResponse struct {
	TransactionID      string    `json:"transactionId"`
	CourseID           string    `json:"courseId"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	PaymentMethod      string    `json:"paymentMethod"`
	DestinationAccount string    `json:"destinationAccount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// CheckoutResponse reports the payment and the caller's new enrollment set.
type CheckoutResponse struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	Transaction       TransactionResponse `json:"transaction"`
	EnrolledCourseIDs []string            `json:"enrolledCourseIds"`
}

// NewTransactionResponse maps a domain transaction.
func NewTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:      t.Reference,
		CourseID:           t.CourseID,
		Amount:             t.Amount,
		Currency:           t.Currency,
		PaymentMethod:      string(t.PaymentMethod),
		DestinationAccount: t.DestinationAccount,
		Status:             string(t.Status),
		CreatedAt:          t.CreatedAt,
	}
}
