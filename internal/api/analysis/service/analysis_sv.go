package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/internal/entity"
	contextPkg "UBASAnthropometry/pkg/context"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *analysisService) AnalyzeMulti(ctx context.Context, userID string, req analysis.MultiAnalysisRequest, images analysis.CaptureImages) (analysis.AnalysisResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(images.PreFront) == 0 || len(images.PostFront) == 0 {
		return analysis.AnalysisResponse{}, analysis.ErrMissingRequiredImages
	}

	var stickerPx *float64
	if req.StickerPx > 0 {
		px := req.StickerPx
		stickerPx = &px
	}
	cal := s.engine.NewCalibration(req.UseSticker, stickerPx, req.StickerMM, req.IrisDiamMM)

	postFront, err := s.extractFront(ctx, images.PostFront)
	if err != nil {
		return analysis.AnalysisResponse{}, err
	}
	postLeft, postRight, postRoll := anthropometry.ResolveFront(postFront)

	qc := s.engine.RunQC(postFront.Resolution, postLeft, postRoll)
	if !qc.Passed {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"reasons":    qc.Reasons,
		}).Info("Post-op front capture failed QC")
		return analysis.AnalysisResponse{QC: qc}, analysis.ErrRetakeRequired
	}

	preFront, err := s.extractFront(ctx, images.PreFront)
	if err != nil {
		return analysis.AnalysisResponse{}, err
	}
	preLeft, preRight, _ := anthropometry.ResolveFront(preFront)

	preRes, err := s.engine.ComputeFrontMetrics(preLeft, preRight, cal, entity.FoldAreas{})
	if err != nil {
		return analysis.AnalysisResponse{}, fmt.Errorf("pre-op front: %w", err)
	}
	postRes, err := s.engine.ComputeFrontMetrics(postLeft, postRight, cal, entity.FoldAreas{})
	if err != nil {
		return analysis.AnalysisResponse{}, fmt.Errorf("post-op front: %w", err)
	}

	preSide, preFeatures, err := s.measureSide(ctx, images.PreSide, nil)
	if err != nil {
		return analysis.AnalysisResponse{}, fmt.Errorf("pre-op side: %w", err)
	}
	postSide, _, err := s.measureSide(ctx, images.PostSide, preFeatures)
	if err != nil {
		return analysis.AnalysisResponse{}, fmt.Errorf("post-op side: %w", err)
	}

	var baseline *entity.Baseline
	if s.opts.UsePreopBaseline {
		baseline = &entity.Baseline{Front: preRes.Metrics, Side: preSide}
	}

	score := s.engine.Score(postRes.Metrics, entity.ObserveSide(postSide), baseline)

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"total":            score.Total,
		"band":             score.Band,
		"calibration_mode": postRes.CalibrationMode,
		"side_captured":    postSide != nil,
	}).Info("Multi analysis scored")

	return s.finalize(ctx, entity.Analysis{
		UserID:           userID,
		QC:               qc,
		Pre:              entity.CaptureMetrics{Front: preRes.Metrics, Side: preSide},
		Post:             entity.CaptureMetrics{Front: postRes.Metrics, Side: postSide},
		Score:            score,
		ScaleMMPerPxPost: postRes.MMPerPx,
		CalibrationMode:  postRes.CalibrationMode,
	})
}

func (s *analysisService) AnalyzeLandmarks(ctx context.Context, userID string, req analysis.LandmarkAnalysisRequest) (analysis.AnalysisResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	res := entity.Resolution{Width: req.Resolution.Width, Height: req.Resolution.Height}
	left := req.Left
	right := left
	if req.Right != nil {
		right = *req.Right
	}

	qc := s.engine.RunQC(res, left, req.HeadRollDeg)
	if !qc.Passed {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"reasons":    qc.Reasons,
		}).Info("Landmark capture failed QC")
		return analysis.AnalysisResponse{QC: qc}, analysis.ErrRetakeRequired
	}

	cal := calibrationFromRequest(s.engine, req.Calibration)
	front, err := s.engine.ComputeFrontMetrics(left, right, cal, req.FoldAreas)
	if err != nil {
		return analysis.AnalysisResponse{}, err
	}

	var side *entity.SideMetrics
	if req.Side != nil {
		m, err := s.engine.ComputeSideMetrics(*req.Side, req.SideReference)
		if err != nil {
			return analysis.AnalysisResponse{}, fmt.Errorf("side: %w", err)
		}
		side = &m
	}

	score := s.engine.Score(front.Metrics, entity.ObserveSide(side), req.Baseline)

	a := entity.Analysis{
		UserID:           userID,
		QC:               qc,
		Post:             entity.CaptureMetrics{Front: front.Metrics, Side: side},
		Score:            score,
		ScaleMMPerPxPost: front.MMPerPx,
		CalibrationMode:  front.CalibrationMode,
	}
	if req.Baseline != nil {
		a.Pre = entity.CaptureMetrics{Front: req.Baseline.Front, Side: req.Baseline.Side}
	}

	return s.finalize(ctx, a)
}

func calibrationFromRequest(engine *anthropometry.Engine, req analysis.CalibrationRequest) entity.Calibration {
	defaults := engine.Config().Calibration

	cal := entity.Calibration{
		Mode:          entity.CalibrationMode(req.Mode),
		IrisDiamMM:    req.IrisDiamMM,
		StickerDiamMM: req.StickerDiamMM,
		StickerPx:     req.StickerPx,
	}
	if cal.Mode == "" {
		cal.Mode = entity.CalibrationIris
	}
	if cal.IrisDiamMM <= 0 {
		cal.IrisDiamMM = defaults.IrisDiamMM
	}
	if cal.StickerDiamMM == nil {
		d := defaults.StickerDiamMM
		cal.StickerDiamMM = &d
	}
	return cal
}

func (s *analysisService) extractFront(ctx context.Context, image []byte) (entity.FrontExtraction, error) {
	requestID := contextPkg.GetRequestID(ctx)

	ex, err := s.landmark.ExtractFront(ctx, image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Front landmark extraction failed")
		return entity.FrontExtraction{}, fmt.Errorf("%w: %v", analysis.ErrLandmarkUnavailable, err)
	}

	if ex.Resolution, err = s.resolution(ex.Resolution, image); err != nil {
		return entity.FrontExtraction{}, err
	}

	if !ex.FaceFound {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("No face found in front capture, using neutral geometry")
	}

	return *ex, nil
}

// measureSide returns nil metrics when no side image was uploaded.
func (s *analysisService) measureSide(ctx context.Context, image []byte, reference *entity.SideFeatures) (*entity.SideMetrics, *entity.SideFeatures, error) {
	if len(image) == 0 {
		return nil, nil, nil
	}
	requestID := contextPkg.GetRequestID(ctx)

	ex, err := s.landmark.ExtractSide(ctx, image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Side landmark extraction failed")
		return nil, nil, fmt.Errorf("%w: %v", analysis.ErrLandmarkUnavailable, err)
	}

	if ex.Resolution, err = s.resolution(ex.Resolution, image); err != nil {
		return nil, nil, err
	}

	features := anthropometry.ResolveSide(*ex)
	metrics, err := s.engine.ComputeSideMetrics(features, reference)
	if err != nil {
		return nil, nil, err
	}

	return &metrics, &features, nil
}

// resolution falls back to the image header when the extractor did not report a size.
func (s *analysisService) resolution(reported entity.Resolution, image []byte) (entity.Resolution, error) {
	if reported.Width > 0 && reported.Height > 0 {
		return reported, nil
	}

	w, h, err := s.utils.ImageResolution(image)
	if err != nil {
		return entity.Resolution{}, fmt.Errorf("%w: %v", analysis.ErrInvalidImage, err)
	}
	return entity.Resolution{Width: w, Height: h}, nil
}
