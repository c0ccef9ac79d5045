package analysisRepository

import (
	"UBASAnthropometry/internal/entity"
	"database/sql"
	"reflect"
	"testing"
	"time"
)

func sampleAnalysis() entity.Analysis {
	side := entity.SideMetrics{SulcusConcavityIdx: -0.4, BrowGlobeVector: 1.2}
	return entity.Analysis{
		ID:     "01HXAAAA",
		UserID: "user-1",
		QC:     entity.QCResult{Passed: true, Reasons: []string{}},
		Pre:    entity.CaptureMetrics{Front: entity.FrontMetrics{MRD1L: 0.1, MRD1R: 0.12}},
		Post:   entity.CaptureMetrics{Front: entity.FrontMetrics{MRD1L: 0.2, MRD1R: 0.2}, Side: &side},
		Score: entity.UBASScore{
			Total:     26,
			Band:      entity.BandExcellent,
			Subscores: map[string]int{entity.SubscaleFunction: 3},
			Rubric:    []entity.RubricItem{{Name: entity.ItemMRD1Change, Points: 3, Max: 3}},
		},
		ScaleMMPerPxPost: 0.1,
		CalibrationMode:  entity.CalibrationIris,
		Summary:          "Overall rating: Excellent",
		ReportLocation:   "https://bucket.s3.amazonaws.com/reports/01HXAAAA.pdf",
		CreatedAt:        time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestAnalysisColumnsRoundTrip(t *testing.T) {
	want := sampleAnalysis()

	args, err := makeAnalysisArgs(want)
	if err != nil {
		t.Fatalf("makeAnalysisArgs() error = %v", err)
	}
	if args["total"] != 26 || args["band"] != "Excellent" {
		t.Errorf("denormalised columns = %v / %v", args["total"], args["band"])
	}

	row := AnalysisDB{
		ID:               args["id"].(string),
		UserID:           args["user_id"].(string),
		QC:               args["qc"].([]byte),
		PreMetrics:       args["pre_metrics"].([]byte),
		PostMetrics:      args["post_metrics"].([]byte),
		UBAS:             args["ubas"].([]byte),
		ScaleMMPerPxPost: sql.NullFloat64{Float64: 0.1, Valid: true},
		CalibrationMode:  sql.NullString{String: "iris", Valid: true},
		AISummary:        args["ai_summary"].(sql.NullString),
		ReportLocation:   args["report_location"].(sql.NullString),
		CreatedAt:        want.CreatedAt,
	}

	got, err := makeAnalysis(row)
	if err != nil {
		t.Fatalf("makeAnalysis() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("makeAnalysis() = %+v\nwant %+v", got, want)
	}
}

func TestMakeAnalysisNullColumns(t *testing.T) {
	got, err := makeAnalysis(AnalysisDB{ID: "x", QC: []byte(`{"passed":false,"reasons":null}`)})
	if err != nil {
		t.Fatalf("makeAnalysis() error = %v", err)
	}
	if got.Summary != "" || got.ReportLocation != "" {
		t.Errorf("null columns should decode as empty strings")
	}
	if got.QC.Reasons == nil {
		t.Errorf("reasons should never be nil")
	}

	if _, err := makeAnalysis(AnalysisDB{UBAS: []byte("{")}); err == nil {
		t.Error("expected a decode error for a corrupt column")
	}
}
