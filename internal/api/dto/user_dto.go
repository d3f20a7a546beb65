package dto

import (
	"time"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// UserResponse is the public view of an identity. Passwords never leave the service.
type UserResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Role              string    `json:"role"`
	EnrolledCourseIDs []string  `json:"enrolledCourseIds"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	enrolled := u.EnrolledCourseIDs
	if enrolled == nil {
		enrolled = []string{}
	}
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Role:              string(u.Role),
		EnrolledCourseIDs: enrolled,
		CreatedAt:         u.CreatedAt,
	}
}

// NewUserList maps a slice of users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
