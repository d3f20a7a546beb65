package domain

import "time"

// User is a registered account (student, instructor or admin).
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	Password          string
	Role              Role
	EnrolledCourseIDs []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsEnrolled reports whether the user already holds courseID.
func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// AddEnrollment appends courseID when absent and reports whether the set changed.
func (u *User) AddEnrollment(courseID string) bool {
	if u.IsEnrolled(courseID) {
		return false
	}
	u.EnrolledCourseIDs = append(u.EnrolledCourseIDs, courseID)
	return true
}
