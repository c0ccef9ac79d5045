package analysisService

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/entity"
	"golang.org/x/net/context"
)

const reasonNoFace = "No face detected."

// CheckFrame runs the QC gate over one live capture frame. Unlike a full
// analysis, a frame without a face fails rather than falling back to
// neutral geometry. A face without left-eye landmarks counts as no face.
func (s *analysisService) CheckFrame(ctx context.Context, frame []byte) (entity.QCResult, error) {
	ex, err := s.extractFront(ctx, frame)
	if err != nil {
		return entity.QCResult{}, err
	}
	if !ex.FaceFound || ex.Left == nil {
		return entity.QCResult{Passed: false, Reasons: []string{reasonNoFace}}, nil
	}

	left, _, roll := anthropometry.ResolveFront(ex)
	return s.engine.RunQC(ex.Resolution, left, roll), nil
}
