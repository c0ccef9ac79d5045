package analysisService

import (
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	"errors"
	"testing"
)

func seed(h *harness) string {
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)
	res, err := h.svc.AnalyzeMulti(testCtx(), "owner", analysis.MultiAnalysisRequest{}, captures())
	if err != nil {
		panic(err)
	}
	return res.ID
}

func TestGetAnalysisByID(t *testing.T) {
	h := newHarness(Options{}, nil)
	id := seed(h)

	res, err := h.svc.GetAnalysisByID(testCtx(), "owner", id)
	if err != nil {
		t.Fatalf("GetAnalysisByID() error = %v", err)
	}
	if res.ID != id {
		t.Errorf("ID = %q, want %q", res.ID, id)
	}
	if h.store.reads != 0 {
		t.Errorf("cached analysis should not hit the store, reads = %d", h.store.reads)
	}

	h.redis.items = nil
	if _, err := h.svc.GetAnalysisByID(testCtx(), "owner", id); err != nil {
		t.Fatalf("GetAnalysisByID() error = %v", err)
	}
	if h.store.reads != 1 {
		t.Errorf("cache miss should read the store once, reads = %d", h.store.reads)
	}
	if _, ok := h.redis.items[id]; !ok {
		t.Error("analysis should be cached after a store read")
	}

	_, err = h.svc.GetAnalysisByID(testCtx(), "someone-else", id)
	if !errors.Is(err, analysis.ErrAnalysisNotOwned) {
		t.Errorf("expected ErrAnalysisNotOwned, got %v", err)
	}
}

func TestGetAnalysesByUserID(t *testing.T) {
	h := newHarness(Options{}, nil)
	id := seed(h)

	items, err := h.svc.GetAnalysesByUserID(testCtx(), "owner")
	if err != nil {
		t.Fatalf("GetAnalysesByUserID() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != id || items[0].Band == "" || !items[0].QCPassed {
		t.Errorf("items = %+v", items)
	}

	items, err = h.svc.GetAnalysesByUserID(testCtx(), "nobody")
	if err != nil || len(items) != 0 {
		t.Errorf("expected no items, got %+v, %v", items, err)
	}
}

func TestGetReportURL(t *testing.T) {
	h := newHarness(Options{}, nil)
	id := seed(h)

	url, err := h.svc.GetReportURL(testCtx(), "owner", id)
	if err != nil {
		t.Fatalf("GetReportURL() error = %v", err)
	}
	if url != "https://bucket.s3.amazonaws.com/reports/"+id+".pdf?signed=1" {
		t.Errorf("url = %q", url)
	}

	a := h.store.byID[id]
	a.ID = "no-report"
	a.ReportLocation = ""
	h.store.byID[a.ID] = a

	if _, err := h.svc.GetReportURL(testCtx(), "owner", "no-report"); !errors.Is(err, analysis.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestListItemFromAnalysis(t *testing.T) {
	item := analysis.NewAnalysisListItem(entity.Analysis{
		ID:    "a",
		QC:    entity.QCResult{Passed: true},
		Score: entity.UBASScore{Total: 22, Band: entity.BandGood},
	})
	if item.Total != 22 || item.Band != entity.BandGood || !item.QCPassed {
		t.Errorf("item = %+v", item)
	}
}
