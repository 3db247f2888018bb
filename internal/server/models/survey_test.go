package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSurvey() *Survey {
	return &Survey{
		ReporterName: "crawler@example.org",
		ReportType:   "Culvert",
		Latitude:     43.7,
		Longitude:    -72.3,
		Ownership:    "Public",
		Timestamp:    "2025-06-01T09:30",
	}
}

func TestSurveyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(s *Survey)
		wantErr string
	}{
		{name: "valid culvert", mut: func(*Survey) {}},
		{name: "storm drain without ownership", mut: func(s *Survey) { s.ReportType = "Storm Drain"; s.Ownership = "" }},
		{name: "culvert needs ownership", mut: func(s *Survey) { s.Ownership = "" }, wantErr: "Ownership failed required_if"},
		{name: "unknown type", mut: func(s *Survey) { s.ReportType = "Bridge" }, wantErr: "ReportType failed oneof"},
		{name: "bad email", mut: func(s *Survey) { s.ReporterName = "crawler" }, wantErr: "ReporterName failed email"},
		{name: "latitude range", mut: func(s *Survey) { s.Latitude = 91 }, wantErr: "Latitude failed max"},
		{name: "bad timestamp", mut: func(s *Survey) { s.Timestamp = "yesterday" }, wantErr: "Timestamp failed datetime"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSurvey()
			tc.mut(s)
			err := s.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSurvey)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTextFieldsBindDistinctFields(t *testing.T) {
	var s Survey
	seen := map[*string]string{}
	for _, f := range TextFields {
		p := f.Ptr(&s)
		if prev, ok := seen[p]; ok {
			t.Fatalf("%s and %s bind the same field", prev, f.Name)
		}
		seen[p] = f.Name
	}
	assert.Len(t, seen, len(TextFields))
}
