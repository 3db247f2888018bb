package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/go-playground/validator/v10"
)

// Report types.
const (
	ReportCulvert    = "Culvert"
	ReportDitch      = "Ditch"
	ReportStormDrain = "Storm Drain"
)

// ReportTypes lists the accepted report types in menu order.
var ReportTypes = []string{ReportCulvert, ReportDitch, ReportStormDrain}

// OwnershipOptions lists the accepted ownership answers for culverts.
var OwnershipOptions = []string{"Public", "Private", "Border", "Unknown"}

// Report is the survey form. Only the branch matching ReportType is sent.
type Report struct {
	ReporterName   string  `validate:"required,email"`
	Latitude       float64 `validate:"min=-90,max=90"`
	Longitude      float64 `validate:"min=-180,max=180"`
	ReportType     string  `validate:"required,report_type"`
	Ownership      string  `validate:"required_if=ReportType Culvert,omitempty,oneof=Public Private Border Unknown"`
	AdditionalInfo string  `validate:"max=2000"`
	Timestamp      string  `validate:"omitempty,datetime=2006-01-02T15:04"`

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
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
		return IsReportType(fl.Field().String())
	})
	return v
}

// IsReportType reports whether s is a known report type.
func IsReportType(s string) bool {
	for _, t := range ReportTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Validate checks the form. Errors wrap common.ErrInvalidReport.
func (r Report) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrInvalidReport, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidReport, strings.Join(msgs, "; "))
}

// ImageFields returns the image fields a report of this type may carry.
func (r Report) ImageFields() map[string]struct{} {
	fields := map[string]struct{}{common.FieldAdditionalPhotos: {}}
	switch r.ReportType {
	case ReportCulvert:
		fields[common.FieldInletPhoto] = struct{}{}
		fields[common.FieldOutletPhoto] = struct{}{}
	case ReportDitch:
		fields[common.FieldDitchPhoto] = struct{}{}
	case ReportStormDrain:
		fields[common.FieldDrainPhoto] = struct{}{}
	}
	return fields
}

type formField struct {
	name  string
	value string
	free  bool
}

// Fields flattens the form into submission fields. Empty answers and
// answers belonging to another report type are left out.
func (r Report) Fields() map[string]FieldValue {
	out := map[string]FieldValue{
		"reporter_name": Text(r.ReporterName),
		"latitude":      Number(r.Latitude),
		"longitude":     Number(r.Longitude),
		"report_type":   Option(r.ReportType),
	}

	shared := []formField{
		{"additional_info", r.AdditionalInfo, true},
		{"timestamp", r.Timestamp, true},
	}

	var branch []formField
	switch r.ReportType {
	case ReportCulvert:
		branch = []formField{
			{"ownership", r.Ownership, false},
			{"culvert_type", r.CulvertType, false},
			{"culvert_diameter", r.CulvertDiameter, false},
			{"water_flow", r.WaterFlow, false},
			{"culvert_blockage", r.CulvertBlockage, false},
			{"perched_status", r.PerchedStatus, false},
			{"header_condition", r.HeaderCondition, false},
			{"inlet_condition", r.InletCondition, false},
			{"outlet_condition", r.OutletCondition, false},
			{"road_condition", r.RoadCondition, false},
		}
	case ReportDitch:
		branch = []formField{
			{"ditch_adjacent", r.DitchAdjacent, false},
			{"ditch_adjacent_other", r.DitchAdjacentOther, true},
			{"ditch_erosion", r.DitchErosion, false},
			{"ditch_water", r.DitchWater, false},
			{"ditch_water_other", r.DitchWaterOther, true},
			{"ditch_vegetation_present", r.DitchVegetationPresent, false},
			{"ditch_vegetation", r.DitchVegetation, false},
			{"ditch_vegetation_other", r.DitchVegetationOther, true},
			{"road_condition", r.RoadCondition, false},
		}
	case ReportStormDrain:
		branch = []formField{
			{"drain_surface", r.DrainSurface, false},
			{"drain_surface_other", r.DrainSurfaceOther, true},
			{"drain_type", r.DrainType, false},
			{"drain_type_other", r.DrainTypeOther, true},
			{"drain_water_flow", r.DrainWaterFlow, false},
			{"drain_outflow", r.DrainOutflow, false},
			{"drain_outlet_blockage", r.DrainOutletBlockage, false},
			{"drain_blockage", r.DrainBlockage, false},
			{"drain_blockage_other", r.DrainBlockageOther, true},
		}
	}

	for _, f := range append(shared, branch...) {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if f.free {
			out[f.name] = Text(f.value)
		} else {
			out[f.name] = Option(f.value)
		}
	}
	return out
}
