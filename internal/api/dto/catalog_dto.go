package dto

import (
	"time"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// CourseRequest creates or updates a course.
type CourseRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	MeetLink       string    `json:"meetLink" validate:"omitempty,url"`
	InstructorName string    `json:"instructorName"`
	Price          float64   `json:"price" validate:"gte=0"`
	Duration       string    `json:"duration"`
	Status         string    `json:"status"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
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

// NewCourseResponse maps a domain course.
func NewCourseResponse(c *domain.Course) CourseResponse {
	return CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Date:           c.Date,
		MeetLink:       c.MeetLink,
		InstructorName: c.InstructorName,
		Price:          c.Price,
		Duration:       c.Duration,
		Status:         string(c.Status),
	}
}

// NewCourseList maps a slice of courses.
func NewCourseList(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}

// MaterialRequest records an uploaded material.
type MaterialRequest struct {
	Title string `json:"title" validate:"required"`
	Type  string `json:"type" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Size  string `json:"size"`
}

// MaterialResponse is the public view of a material.
type MaterialResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	Size       string    `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
}

// NewMaterialResponse maps a domain material.
func NewMaterialResponse(m *domain.Material) MaterialResponse {
	return MaterialResponse{
		ID:         m.ID,
		Title:      m.Title,
		Type:       string(m.Type),
		URL:        m.URL,
		Size:       m.Size,
		UploadDate: m.UploadedAt,
	}
}

// NewMaterialList maps a slice of materials.
func NewMaterialList(materials []domain.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, NewMaterialResponse(&materials[i]))
	}
	return out
}

// NotificationRequest is an admin broadcast.
type NotificationRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}
