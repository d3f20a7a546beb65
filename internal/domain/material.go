package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaterialType enumerates supported upload kinds.
type MaterialType string

const (
	MaterialTypePDF   MaterialType = "PDF"
	MaterialTypeSlide MaterialType = "SLIDE"
	MaterialTypeDoc   MaterialType = "DOC"
	MaterialTypeVideo MaterialType = "VIDEO"
)

// ParseMaterialType validates material type input.
func ParseMaterialType(raw string) (MaterialType, error) {
	value := MaterialType(strings.ToUpper(strings.TrimSpace(raw)))
	switch value {
	case MaterialTypePDF, MaterialTypeSlide, MaterialTypeDoc, MaterialTypeVideo:
		return value, nil
	default:
		return "", fmt.Errorf("unknown material type %q", raw)
	}
}

// Material is a course resource shared by instructors.
type Material struct {
	ID         string
	Title      string
	Type       MaterialType
	URL        string
	Size       string
	UploadedAt time.Time
}
