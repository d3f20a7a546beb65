package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPaymentRecorded     EventType = "payment_recorded"
	EventEnrollmentConfirmed EventType = "enrollment_confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	CourseID  string      `json:"course_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, userID, courseID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		CourseID:  courseID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	TransactionID      string  `json:"transaction_id"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
	PaymentMethod      string  `json:"payment_method"`
	DestinationAccount string  `json:"destination_account"`
}

// EnrollmentConfirmedPayload payload.
type EnrollmentConfirmedPayload struct {
	EnrolledCourseIDs []string `json:"enrolled_course_ids"`
}
