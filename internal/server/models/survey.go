package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrInvalidSurvey = errors.New("invalid survey")

// Survey is one stored report. Branch fields of other report types stay
// empty and are stored as NULL.
type Survey struct {
	ID                 int64
	ClientSubmissionID uuid.NullUUID
	ReporterName       string  `validate:"required,email"`
	ReportType         string  `validate:"required,oneof=Culvert Ditch 'Storm Drain'"`
	Latitude           float64 `validate:"min=-90,max=90"`
	Longitude          float64 `validate:"min=-180,max=180"`
	Ownership          string  `validate:"required_if=ReportType Culvert"`
	AdditionalInfo     string  `validate:"max=2000"`
	Timestamp          string  `validate:"omitempty,datetime=2006-01-02T15:04"`

	CulvertType     string
	CulvertDiameter string
	WaterFlow       string
	CulvertBlockage string
	PerchedStatus   string
	HeaderCondition string
	InletCondition  string
	OutletCondition string
	RoadCondition   string

	DitchAdjacent          string
	DitchAdjacentOther     string
	DitchErosion           string
	DitchWater             string
	DitchWaterOther        string
	DitchVegetationPresent string
	DitchVegetation        string
	DitchVegetationOther   string

	DrainSurface        string
	DrainSurfaceOther   string
	DrainType           string
	DrainTypeOther      string
	DrainWaterFlow      string
	DrainOutflow        string
	DrainOutletBlockage string
	DrainBlockage       string
	DrainBlockageOther  string

	CreatedAt time.Time
}

// TextField binds a form field and column name to a Survey string field.
// Nullable columns store "" as NULL; the others store it as-is. Free marks
// user-written text.
type TextField struct {
	Name     string
	Nullable bool
	Free     bool
	Ptr      func(*Survey) *string
}

// TextFields lists the optional text columns in insert order.
var TextFields = []TextField{
	{"ownership", true, false, func(s *Survey) *string { return &s.Ownership }},
	{"additional_info", false, true, func(s *Survey) *string { return &s.AdditionalInfo }},
	{"timestamp", true, false, func(s *Survey) *string { return &s.Timestamp }},
	{"culvert_type", true, false, func(s *Survey) *string { return &s.CulvertType }},
	{"culvert_diameter", true, false, func(s *Survey) *string { return &s.CulvertDiameter }},
	{"water_flow", true, false, func(s *Survey) *string { return &s.WaterFlow }},
	{"culvert_blockage", true, false, func(s *Survey) *string { return &s.CulvertBlockage }},
	{"perched_status", true, false, func(s *Survey) *string { return &s.PerchedStatus }},
	{"header_condition", true, false, func(s *Survey) *string { return &s.HeaderCondition }},
	{"inlet_condition", true, false, func(s *Survey) *string { return &s.InletCondition }},
	{"outlet_condition", true, false, func(s *Survey) *string { return &s.OutletCondition }},
	{"road_condition", true, false, func(s *Survey) *string { return &s.RoadCondition }},
	{"ditch_adjacent", true, false, func(s *Survey) *string { return &s.DitchAdjacent }},
	{"ditch_adjacent_other", false, true, func(s *Survey) *string { return &s.DitchAdjacentOther }},
	{"ditch_erosion", true, false, func(s *Survey) *string { return &s.DitchErosion }},
	{"ditch_water", true, false, func(s *Survey) *string { return &s.DitchWater }},
	{"ditch_water_other", false, true, func(s *Survey) *string { return &s.DitchWaterOther }},
	{"ditch_vegetation_present", true, false, func(s *Survey) *string { return &s.DitchVegetationPresent }},
	{"ditch_vegetation", true, false, func(s *Survey) *string { return &s.DitchVegetation }},
	{"ditch_vegetation_other", false, true, func(s *Survey) *string { return &s.DitchVegetationOther }},
	{"drain_surface", true, false, func(s *Survey) *string { return &s.DrainSurface }},
	{"drain_surface_other", false, true, func(s *Survey) *string { return &s.DrainSurfaceOther }},
	{"drain_type", true, false, func(s *Survey) *string { return &s.DrainType }},
	{"drain_type_other", false, true, func(s *Survey) *string { return &s.DrainTypeOther }},
	{"drain_water_flow", true, false, func(s *Survey) *string { return &s.DrainWaterFlow }},
	{"drain_outflow", true, false, func(s *Survey) *string { return &s.DrainOutflow }},
	{"drain_outlet_blockage", true, false, func(s *Survey) *string { return &s.DrainOutletBlockage }},
	{"drain_blockage", true, false, func(s *Survey) *string { return &s.DrainBlockage }},
	{"drain_blockage_other", false, true, func(s *Survey) *string { return &s.DrainBlockageOther }},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the required answers. Errors wrap ErrInvalidSurvey.
func (s *Survey) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSurvey, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSurvey, strings.Join(msgs, "; "))
}

// Photo is the metadata row of an uploaded image; the bytes live in
// object storage under StorageKey.
type Photo struct {
	ID          int64
	SurveyID    int64
	Field       string
	StorageKey  string
	ContentType string
	Size        int64
}

// HistoryItem is the summary returned by the history endpoint.
type HistoryItem struct {
	ID         int64     `json:"id"`
	ReportType string    `json:"report_type"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Ownership  string    `json:"ownership,omitempty"`
	Timestamp  string    `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}
