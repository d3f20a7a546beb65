package client

import "time"

// User mirrors the public identity view returned by the service.
type User struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Email             string    `json:"email" yaml:"email"`
	Phone             string    `json:"phone" yaml:"phone"`
	Role              string    `json:"role" yaml:"role"`
	EnrolledCourseIDs []string  `json:"enrolledCourseIds" yaml:"enrolled_course_ids"`
	CreatedAt         time.Time `json:"createdAt" yaml:"created_at"`
}

// IsEnrolled reports whether the user holds the course.
func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Course is a scheduled class session.
type Course struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	MeetLink       string    `json:"meetLink"`
	InstructorName string    `json:"instructorName"`
	Price          float64   `json:"price"`
	Duration       string    `json:"duration"`
	Status         string    `json:"status"`
}

// CourseInput creates or replaces a course.
type CourseInput struct {
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Date           time.Time `json:"date"`
	MeetLink       string    `json:"meetLink,omitempty"`
	InstructorName string    `json:"instructorName,omitempty"`
	Price          float64   `json:"price"`
	Duration       string    `json:"duration,omitempty"`
	Status         string    `json:"status,omitempty"`
}

// Material is an uploaded course resource.
type Material struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	Size       string    `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
}

// MaterialInput records a new material.
type MaterialInput struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Size  string `json:"size,omitempty"`
}

// Transaction is the payment record returned by checkout.
type Transaction struct {
	TransactionID      string    `json:"transactionId"`
	CourseID           string    `json:"courseId"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	PaymentMethod      string    `json:"paymentMethod"`
	DestinationAccount string    `json:"destinationAccount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// CheckoutRequest pays for a course as the signed-in user.
type CheckoutRequest struct {
	CourseID      string  `json:"courseId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	PaymentMethod string  `json:"paymentMethod"`
	UPIID         string  `json:"upiId,omitempty"`
}

// CheckoutResult carries the recorded payment and the new enrollment set.
// Transaction is nil when the checkout was simulated offline.
type CheckoutResult struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
	Transaction       *Transaction `json:"transaction"`
	EnrolledCourseIDs []string     `json:"enrolledCourseIds"`
}

// RegisterRequest creates an account. Either VerificationToken or OTP must prove the phone.
type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	Role              string `json:"role,omitempty"`
	VerificationToken string `json:"verificationToken,omitempty"`
	OTP               string `json:"otp,omitempty"`
}

// VerifyResult reports a successful OTP check.
type VerifyResult struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	VerificationToken string     `json:"verificationToken,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

// AuthResult is returned by every sign-in operation.
type AuthResult struct {
	User User `json:"user"`
	Auth struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"auth"`
}
