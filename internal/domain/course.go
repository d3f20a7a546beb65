package domain

import (
	"fmt"
	"strings"
	"time"
)

// CourseStatus represents lifecycle states for a course session.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusArchived CourseStatus = "ARCHIVED"
)

// ParseCourseStatus validates status input. Empty input defaults to ACTIVE.
func ParseCourseStatus(raw string) (CourseStatus, error) {
	switch CourseStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", CourseStatusActive:
		return CourseStatusActive, nil
	case CourseStatusArchived:
		return CourseStatusArchived, nil
	default:
		return "", fmt.Errorf("unknown course status %q", raw)
	}
}

// Course is a scheduled class session offered by an instructor.
type Course struct {
	ID             string
	Title          string
	Description    string
	Date           time.Time
	MeetLink       string
	InstructorName string
	Price          float64
	Duration       string
	Status         CourseStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
