package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zeroclasses/coaching-service/internal/api/dto"
	"github.com/zeroclasses/coaching-service/internal/service"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// CatalogHandler exposes course and material endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCourses handles GET /api/courses.
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseList(courses)})
}

// CreateCourse handles POST /api/courses.
func (h *CatalogHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.catalog.CreateCourse(c.UserContext(), courseInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// UpdateCourse handles PUT /api/courses/:id.
func (h *CatalogHandler) UpdateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.catalog.UpdateCourse(c.UserContext(), c.Params("id"), courseInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// ListMaterials handles GET /api/materials.
func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	materials, err := h.catalog.ListMaterials(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialList(materials)})
}

// CreateMaterial handles POST /api/materials.
func (h *CatalogHandler) CreateMaterial(c *fiber.Ctx) error {
	var req dto.MaterialRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	material, err := h.catalog.CreateMaterial(c.UserContext(), service.MaterialInput{
		Title: req.Title,
		Type:  req.Type,
		URL:   req.URL,
		Size:  req.Size,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMaterialResponse(material)})
}

func courseInput(req dto.CourseRequest) service.CourseInput {
	return service.CourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		MeetLink:       req.MeetLink,
		InstructorName: req.InstructorName,
		Price:          req.Price,
		Duration:       req.Duration,
		Status:         req.Status,
	}
}
