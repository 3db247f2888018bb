package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/filex"
)

// timestampLayout is the form's local date-time format.
const timestampLayout = "2006-01-02T15:04"

// readPhoto is a test seam for filex.ReadPhoto.
var readPhoto = filex.ReadPhoto

type question struct {
	label   string
	options []string
	dst     *string
	other   *string
}

var (
	conditions     = []string{"Good", "Fair", "Poor", "Unknown"}
	flowLevels     = []string{"Dry", "Trickle", "Moderate", "Significant"}
	blockageLevels = []string{"No blockage", "<25% blocked", "25-50% blocked", ">50% blocked"}
	roadConditions = []string{
		"Asphalt or other hard surface – Good condition – Smooth, well-maintained, no major defects",
		"Asphalt or other hard surface – Fair condition – Minor surface wear, cracking, or weathering, but generally functional",
		"Asphalt or other hard surface – Poor condition – Significant damage, potholes, erosion, or potential safety concerns",
		"dirt or gravel road – even surface, well maintained",
		"dirt or gravel road – some erosion, still passable by all vehicles",
		"dirt or gravel road – major erosion, in need of repair",
		"Unknown",
		"not a public road",
	}
)

func culvertQuestions(r *models.Report) []question {
	return []question{
		{label: "Culvert type", options: []string{"Plastic pipe", "Metal pipe", "Concrete", "Masonry"}, dst: &r.CulvertType},
		{label: "Diameter (inches)", options: []string{"<8", "8-16", "16-32", "32-48", ">48"}, dst: &r.CulvertDiameter},
		{label: "Water flow", options: flowLevels, dst: &r.WaterFlow},
		{label: "Blockage", options: blockageLevels, dst: &r.CulvertBlockage},
		{label: "Perched status", options: []string{
			"No, inlet and outlet are on same level as streambed",
			"Partially, inlet is higher than streambed",
			"Partially, outlet is higher than streambed",
			"Yes, both inlet and outlet are higher than streambed",
		}, dst: &r.PerchedStatus},
		{label: "Header condition", options: []string{"Good", "Fair", "Poor", "None", "Unknown"}, dst: &r.HeaderCondition},
		{label: "Inlet condition", options: conditions, dst: &r.InletCondition},
		{label: "Outlet condition", options: conditions, dst: &r.OutletCondition},
		{label: "Road condition", options: roadConditions, dst: &r.RoadCondition},
	}
}

func ditchQuestions(r *models.Report) []question {
	return []question{
		{label: "Is the ditch adjacent to a culvert?", options: []string{
			"No",
			"Inlet (feeds into culvert, upstream)",
			"Outlet (drains from culvert, downstream)",
			"Other",
		}, dst: &r.DitchAdjacent, other: &r.DitchAdjacentOther},
		{label: "Erosion in and around the ditch", options: []string{"Significant", "Some", "A little", "None"}, dst: &r.DitchErosion},
		{label: "Water in the ditch", options: []string{
			"No, dry", "Standing water", "Slow trickle", "Moderate flow", "Significant flow", "Other",
		}, dst: &r.DitchWater, other: &r.DitchWaterOther},
		{label: "Vegetation present?", options: []string{"Yes", "No"}, dst: &r.DitchVegetationPresent},
		{label: "Vegetation", options: []string{
			"Short, low-lying and/or well-mown plants",
			"Taller plants, bushier shrubs",
			"Small trees and undergrowth",
			"No, bare dirt",
			"No, heavy stone/riprap",
			"No, other (add details)",
		}, dst: &r.DitchVegetation, other: &r.DitchVegetationOther},
		{label: "Road condition", options: roadConditions, dst: &r.RoadCondition},
	}
}

func drainQuestions(r *models.Report) []question {
	return []question{
		{label: "Drain surface", options: []string{
			"Dirt/gravel road", "Paved road", "Parking lot", "Sidewalk", "Other",
		}, dst: &r.DrainSurface, other: &r.DrainSurfaceOther},
		{label: "Drain type", options: []string{"Solid metal grate", "Bars", "Other"}, dst: &r.DrainType, other: &r.DrainTypeOther},
		{label: "Water flowing into the drain", options: append(append([]string{}, flowLevels...),
			"Standing water over drain (not draining)"), dst: &r.DrainWaterFlow},
		{label: "Water flowing out of the drain outlet", options: []string{"Yes", "No", "Cannot locate outlet"}, dst: &r.DrainOutflow},
		{label: "Outlet blockage", options: blockageLevels, dst: &r.DrainOutletBlockage},
		{label: "Is the drain inlet blocked?", options: []string{
			"No",
			"Light debris (sticks, grass, can be pushed aside)",
			"Medium debris (sticks and grass in mud/dirt/sand, harder to push aside)",
			"Heavy debris (piles that impede flow and must be moved with machinery)",
			"Other",
		}, dst: &r.DrainBlockage, other: &r.DrainBlockageOther},
	}
}

func isOther(answer string) bool {
	return answer == "Other" || strings.HasPrefix(answer, "No, other")
}

func ask(reader *bufio.Reader, w io.Writer, qs []question) error {
	for _, q := range qs {
		v, err := GetChoice(reader, q.label, q.options, true, w)
		if err != nil {
			return err
		}
		*q.dst = v
		if q.other != nil && isOther(v) {
			if *q.other, err = GetSimpleText(reader, q.label+": details", w); err != nil {
				return err
			}
		}
	}
	return nil
}

// inputReport walks the user through the form. Only the branch of the
// chosen report type is asked. reporter pre-fills the email when set.
func inputReport(reader *bufio.Reader, w io.Writer, reporter string, now time.Time) (models.Report, error) {
	var r models.Report
	var err error

	prompt := "Reporter email"
	if reporter != "" {
		prompt = fmt.Sprintf("Reporter email (Enter for %s)", reporter)
	}
	if r.ReporterName, err = GetSimpleText(reader, prompt, w); err != nil {
		return r, err
	}
	if r.ReporterName == "" {
		r.ReporterName = reporter
	}

	if r.ReportType, err = GetChoice(reader, "Report type", models.ReportTypes, false, w); err != nil {
		return r, err
	}
	if r.Latitude, err = GetFloat(reader, "Latitude", w); err != nil {
		return r, err
	}
	if r.Longitude, err = GetFloat(reader, "Longitude", w); err != nil {
		return r, err
	}

	switch r.ReportType {
	case models.ReportCulvert:
		if r.Ownership, err = GetChoice(reader, "Ownership", models.OwnershipOptions, false, w); err != nil {
			return r, err
		}
		err = ask(reader, w, culvertQuestions(&r))
	case models.ReportDitch:
		err = ask(reader, w, ditchQuestions(&r))
	case models.ReportStormDrain:
		err = ask(reader, w, drainQuestions(&r))
	}
	if err != nil {
		return r, err
	}

	if r.AdditionalInfo, err = GetSimpleText(reader, "Additional info", w); err != nil {
		return r, err
	}

	def := now.Format(timestampLayout)
	if r.Timestamp, err = GetSimpleText(reader, fmt.Sprintf("Timestamp YYYY-MM-DDTHH:MM (Enter for %s)", def), w); err != nil {
		return r, err
	}
	if r.Timestamp == "" {
		r.Timestamp = def
	}
	return r, nil
}

// inputPhotos asks for photo paths for every image field the report type
// allows. Unreadable and empty files are reported and skipped.
func inputPhotos(reader *bufio.Reader, w io.Writer, r models.Report) (map[string][][]byte, error) {
	allowed := r.ImageFields()
	photos := make(map[string][][]byte)

	for _, field := range common.ImageFields {
		if _, ok := allowed[field]; !ok {
			continue
		}
		paths, err := GetList(reader, "Photo paths for "+strings.ReplaceAll(field, "_", " "), common.PhotoLimit(field), w)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			data, err := readPhoto(p)
			if err != nil {
				fmt.Fprintf(w, "Skipping %s: %v\n", p, err)
				continue
			}
			if data == nil {
				fmt.Fprintf(w, "Skipping %s: file is empty\n", p)
				continue
			}
			photos[field] = append(photos[field], data)
		}
	}
	return photos, nil
}
