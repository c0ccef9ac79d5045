package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"context"
	"errors"
	"strings"
	"testing"
)

func testCtx() context.Context {
	return contextPkg.WithRequestID(context.Background(), "test-request")
}

func captures() analysis.CaptureImages {
	return analysis.CaptureImages{PreFront: []byte("pre-front"), PostFront: []byte("post-front")}
}

func TestAnalyzeMulti(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 1)

	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}

	if res.ID == "" {
		t.Fatal("analysis id not assigned")
	}
	if !res.QC.Passed || res.QC.Reasons == nil || len(res.QC.Reasons) != 0 {
		t.Errorf("QC = %+v", res.QC)
	}
	if res.CalibrationMode != entity.CalibrationIris {
		t.Errorf("CalibrationMode = %v, want iris", res.CalibrationMode)
	}
	if res.ScaleMMPerPxPost < 0.589 || res.ScaleMMPerPxPost > 0.591 {
		t.Errorf("ScaleMMPerPxPost = %v, want 0.59", res.ScaleMMPerPxPost)
	}
	if res.Post.Side != nil {
		t.Errorf("no side image was uploaded")
	}
	if got, _ := res.UBAS.Points(entity.ItemSulcusConcavity); got != 2 {
		t.Errorf("missing side capture should score neutral, got %d", got)
	}
	if !strings.HasPrefix(res.AISummary, "Surgery summary:") {
		t.Errorf("expected local summary, got %q", res.AISummary)
	}
	if !strings.HasSuffix(res.ReportURL, "?signed=1") {
		t.Errorf("ReportURL = %q", res.ReportURL)
	}

	stored, ok := h.store.byID[res.ID]
	if !ok {
		t.Fatal("analysis not persisted")
	}
	if stored.UserID != "user-1" || stored.Score.Total != res.UBAS.Total {
		t.Errorf("stored analysis mismatch: %+v", stored)
	}
	if _, ok := h.redis.items[res.ID]; !ok {
		t.Error("analysis not cached")
	}
	if _, ok := h.s3.uploaded["reports/"+res.ID+".pdf"]; !ok {
		t.Error("report not uploaded")
	}
}

func TestAnalyzeMultiRetake(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 400, 600, 0)

	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if !errors.Is(err, analysis.ErrRetakeRequired) {
		t.Fatalf("expected ErrRetakeRequired, got %v", err)
	}
	if res.QC.Passed || len(res.QC.Reasons) != 1 {
		t.Errorf("QC = %+v", res.QC)
	}
	if len(h.store.byID) != 0 {
		t.Error("failed captures must not be stored")
	}
	if h.landmark.calls != 1 {
		t.Errorf("pre-op capture should not be processed after a failed QC, calls = %d", h.landmark.calls)
	}
}

func TestAnalyzeMultiErrors(t *testing.T) {
	h := newHarness(Options{}, nil)

	_, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, analysis.CaptureImages{PostFront: []byte("x")})
	if !errors.Is(err, analysis.ErrMissingRequiredImages) {
		t.Errorf("expected ErrMissingRequiredImages, got %v", err)
	}

	h.landmark.err = errors.New("connection refused")
	_, err = h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if !errors.Is(err, analysis.ErrLandmarkUnavailable) {
		t.Errorf("expected ErrLandmarkUnavailable, got %v", err)
	}
}

func TestAnalyzeMultiNoFaceUsesNeutralGeometry(t *testing.T) {
	h := newHarness(Options{}, nil)

	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if !res.QC.Passed {
		t.Errorf("neutral geometry should pass QC: %+v", res.QC)
	}
	// 640x640 neutral geometry: r = 64, upper lid 22px above the iris centre
	if got := res.Post.Front.MRD1L; got < 0.343 || got > 0.344 {
		t.Errorf("MRD1L = %v, want 22/64", got)
	}
}

func TestAnalyzeMultiSticker(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)

	req := analysis.MultiAnalysisRequest{UseSticker: true, StickerPx: 50, StickerMM: 10, IrisDiamMM: 11.8}
	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", req, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if res.CalibrationMode != entity.CalibrationSticker || res.ScaleMMPerPxPost != 0.2 {
		t.Errorf("got mode %v scale %v", res.CalibrationMode, res.ScaleMMPerPxPost)
	}

	req.StickerPx = 0
	res, err = h.svc.AnalyzeMulti(testCtx(), "user-1", req, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if res.CalibrationMode != entity.CalibrationIris {
		t.Errorf("sticker without pixel size should fall back to iris, got %v", res.CalibrationMode)
	}
}

func TestAnalyzeMultiSideCaptures(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)

	pre := side()
	pre.LashLine = entity.Polyline{{X: 0, Y: 0}, {X: 10, Y: 10}}
	post := side()
	h.landmark.side["pre-side"] = &entity.SideExtraction{FaceFound: true, Features: &pre, Resolution: entity.Resolution{Width: 640, Height: 640}}
	h.landmark.side["post-side"] = &entity.SideExtraction{FaceFound: true, Features: &post, Resolution: entity.Resolution{Width: 640, Height: 640}}

	imgs := captures()
	imgs.PreSide = []byte("pre-side")
	imgs.PostSide = []byte("post-side")

	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, imgs)
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if res.Post.Side == nil || res.Pre.Side == nil {
		t.Fatal("side metrics missing")
	}
	if d := res.Post.Side.LashVectorAngleDeltaDeg; d < -45.0001 || d > -44.9999 {
		t.Errorf("post lash delta against pre-op = %v, want -45", d)
	}
	if res.Pre.Side.LashVectorAngleDeltaDeg != 0 {
		t.Errorf("pre-op side has no reference, got %v", res.Pre.Side.LashVectorAngleDeltaDeg)
	}
	if got, _ := res.UBAS.Points(entity.ItemLashVector); got != 0 {
		t.Errorf("lash vector = %d, want 0 for a 45° change", got)
	}
	if got, _ := res.UBAS.Points(entity.ItemSulcusConcavity); got != 3 {
		t.Errorf("sulcus = %d, want 3", got)
	}
}

func TestAnalyzeMultiPreopBaseline(t *testing.T) {
	preEye := eye()
	preEye.BrowCurve = entity.Polyline{{X: 100, Y: 69.2}}

	run := func(opts Options) entity.UBASScore {
		h := newHarness(opts, nil)
		h.landmark.front["pre-front"] = frontOf(preEye, 640, 640, 0)
		h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)
		res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
		if err != nil {
			t.Fatalf("AnalyzeMulti() error = %v", err)
		}
		return res.UBAS
	}

	if got, _ := run(Options{}).Points(entity.ItemBrowStability); got != 3 {
		t.Errorf("without baseline brow stability = %d, want 3", got)
	}
	// BPD moves by 0.08 ID between captures
	if got, _ := run(Options{UsePreopBaseline: true}).Points(entity.ItemBrowStability); got != 1 {
		t.Errorf("with baseline brow stability = %d, want 1", got)
	}
}

func TestSummaryUsesGemini(t *testing.T) {
	h := newHarness(Options{}, &fakeGemini{text: "Functional improvement with symmetric creases."})
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)

	res, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if res.AISummary != "Functional improvement with symmetric creases." {
		t.Errorf("AISummary = %q", res.AISummary)
	}

	h = newHarness(Options{}, &fakeGemini{err: errors.New("quota exceeded")})
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)

	res, err = h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures())
	if err != nil {
		t.Fatalf("AnalyzeMulti() error = %v", err)
	}
	if !strings.HasPrefix(res.AISummary, "Surgery summary:") {
		t.Errorf("expected local fallback, got %q", res.AISummary)
	}
}

func TestFinalizeRemovesReportWhenStoreFails(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["pre-front"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["post-front"] = frontOf(eye(), 640, 640, 0)
	h.store.createErr = errors.New("db down")

	if _, err := h.svc.AnalyzeMulti(testCtx(), "user-1", analysis.MultiAnalysisRequest{}, captures()); err == nil {
		t.Fatal("expected an error")
	}
	if len(h.s3.deleted) != 1 {
		t.Errorf("orphaned report should be deleted, deleted = %v", h.s3.deleted)
	}
}

func TestAnalyzeLandmarks(t *testing.T) {
	h := newHarness(Options{}, nil)
	sf := side()
	stickerPx, stickerMM := 50.0, 10.0

	req := analysis.LandmarkAnalysisRequest{
		Resolution: analysis.ResolutionRequest{Width: 640, Height: 640},
		Left:       eye(),
		Side:       &sf,
		Calibration: analysis.CalibrationRequest{
			Mode:          string(entity.CalibrationSticker),
			StickerPx:     &stickerPx,
			StickerDiamMM: &stickerMM,
		},
	}

	res, err := h.svc.AnalyzeLandmarks(testCtx(), "user-2", req)
	if err != nil {
		t.Fatalf("AnalyzeLandmarks() error = %v", err)
	}
	if res.CalibrationMode != entity.CalibrationSticker || res.ScaleMMPerPxPost != 0.2 {
		t.Errorf("got mode %v scale %v", res.CalibrationMode, res.ScaleMMPerPxPost)
	}
	if res.Post.Side == nil || res.Post.Side.SulcusConcavityIdx != -1.5 {
		t.Errorf("side metrics = %+v", res.Post.Side)
	}
	if h.landmark.calls != 0 {
		t.Error("pre-extracted landmarks must not call the extractor")
	}

	req.HeadRollDeg = 5
	_, err = h.svc.AnalyzeLandmarks(testCtx(), "user-2", req)
	if !errors.Is(err, analysis.ErrRetakeRequired) {
		t.Errorf("expected ErrRetakeRequired, got %v", err)
	}

	req.HeadRollDeg = 0
	req.Left.IrisRadius = 0
	_, err = h.svc.AnalyzeLandmarks(testCtx(), "user-2", req)
	if !errors.Is(err, anthropometry.ErrInvalidIrisRadius) {
		t.Errorf("expected an invalid radius error, got %v", err)
	}
}

func TestCheckFrame(t *testing.T) {
	h := newHarness(Options{}, nil)
	h.landmark.front["good"] = frontOf(eye(), 640, 640, 0)
	h.landmark.front["tilted"] = frontOf(eye(), 640, 640, 6)
	h.landmark.front["no-landmarks"] = &entity.FrontExtraction{
		FaceFound:  true,
		Resolution: entity.Resolution{Width: 640, Height: 640},
	}

	qc, err := h.svc.CheckFrame(testCtx(), []byte("good"))
	if err != nil || !qc.Passed {
		t.Errorf("good frame: %+v, %v", qc, err)
	}

	qc, err = h.svc.CheckFrame(testCtx(), []byte("tilted"))
	if err != nil || qc.Passed || qc.Reasons[0] != "Head tilt > 3°." {
		t.Errorf("tilted frame: %+v, %v", qc, err)
	}

	qc, err = h.svc.CheckFrame(testCtx(), []byte("empty"))
	if err != nil || qc.Passed || qc.Reasons[0] != reasonNoFace {
		t.Errorf("faceless frame: %+v, %v", qc, err)
	}

	qc, err = h.svc.CheckFrame(testCtx(), []byte("no-landmarks"))
	if err != nil || qc.Passed || len(qc.Reasons) != 1 || qc.Reasons[0] != reasonNoFace {
		t.Errorf("face without landmarks: %+v, %v", qc, err)
	}
}
