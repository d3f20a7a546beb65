package service

import (
	"context"
	"strings"
	"time"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/repository"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// CatalogService manages course sessions and materials.
type CatalogService struct {
	courses   repository.CourseRepository
	materials repository.MaterialRepository
}

// NewCatalogService builds the service.
func NewCatalogService(courses repository.CourseRepository, materials repository.MaterialRepository) *CatalogService {
	return &CatalogService{courses: courses, materials: materials}
}

// CourseInput describes course create and update payloads.
type CourseInput struct {
	Title          string
	Description    string
	Date           time.Time
	MeetLink       string
	InstructorName string
	Price          float64
	Duration       string
	Status         string
}

// MaterialInput describes a material upload record.
type MaterialInput struct {
	Title string
	Type  string
	URL   string
	Size  string
}

// ListCourses returns every course.
func (s *CatalogService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

// GetCourse fetches one course.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// CreateCourse validates and stores a new course.
func (s *CatalogService) CreateCourse(ctx context.Context, input CourseInput) (*domain.Course, error) {
	course, err := buildCourse(input)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse replaces the editable fields of course id.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, input CourseInput) (*domain.Course, error) {
	course, err := buildCourse(input)
	if err != nil {
		return nil, err
	}
	course.ID = id
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ListMaterials returns materials newest first.
func (s *CatalogService) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return s.materials.List(ctx)
}

// CreateMaterial records an uploaded material.
func (s *CatalogService) CreateMaterial(ctx context.Context, input MaterialInput) (*domain.Material, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.URL) == "" {
		return nil, apperrors.NewValidationError("title and url are required", nil)
	}
	materialType, err := domain.ParseMaterialType(input.Type)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"type": input.Type})
	}

	material := &domain.Material{
		Title:      title,
		Type:       materialType,
		URL:        strings.TrimSpace(input.URL),
		Size:       input.Size,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func buildCourse(input CourseInput) (*domain.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", map[string]any{"price": input.Price})
	}
	status, err := domain.ParseCourseStatus(input.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": input.Status})
	}
	return &domain.Course{
		Title:          title,
		Description:    input.Description,
		Date:           input.Date.UTC(),
		MeetLink:       input.MeetLink,
		InstructorName: input.InstructorName,
		Price:          input.Price,
		Duration:       input.Duration,
		Status:         status,
	}, nil
}
