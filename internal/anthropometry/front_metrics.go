package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/geometry"
	"fmt"
	"math"
)

type FrontResult struct {
	Metrics         entity.FrontMetrics
	MMPerPx         float64
	CalibrationMode entity.CalibrationMode
}

type eyeMetrics struct {
	mrd1, mrd2, pfh        float64
	tpsMid, tpsMed, tpsLat float64
	bpd                    float64
}

// tarsalShow is the crease-to-lash distance at column x in iris-radius units,
// positive when the crease sits above the lash line.
func tarsalShow(lm entity.LandmarkSet, x float64) (float64, error) {
	lash, err := geometry.SampleYAtX(lm.LashLine, x)
	if err != nil {
		return 0, err
	}
	crease, err := geometry.SampleYAtX(lm.CreaseLine, x)
	if err != nil {
		return 0, err
	}
	return -(lash - crease) / lm.IrisRadius, nil
}

func measureEye(lm entity.LandmarkSet) (eyeMetrics, error) {
	if err := validateLandmarks(lm); err != nil {
		return eyeMetrics{}, err
	}

	cx, cy, r := lm.IrisCenter.X, lm.IrisCenter.Y, lm.IrisRadius

	upperGap, err := geometry.VerticalGap(lm.UpperLid, cx, cy)
	if err != nil {
		return eyeMetrics{}, geometryErr(err)
	}
	lowerGap, err := geometry.VerticalGap(lm.LowerLid, cx, cy)
	if err != nil {
		return eyeMetrics{}, geometryErr(err)
	}

	m := eyeMetrics{
		mrd1: -upperGap / r,
		mrd2: lowerGap / r,
	}
	m.pfh = m.mrd1 + m.mrd2

	xMed := geometry.ColumnX(lm.MedialCanthus, lm.LateralCanthus, MedialColumnFraction)
	xLat := geometry.ColumnX(lm.MedialCanthus, lm.LateralCanthus, LateralColumnFraction)

	if m.tpsMid, err = tarsalShow(lm, cx); err != nil {
		return eyeMetrics{}, geometryErr(err)
	}
	if m.tpsMed, err = tarsalShow(lm, xMed); err != nil {
		return eyeMetrics{}, geometryErr(err)
	}
	if m.tpsLat, err = tarsalShow(lm, xLat); err != nil {
		return eyeMetrics{}, geometryErr(err)
	}

	browY, err := geometry.SampleYAtX(lm.BrowCurve, cx)
	if err != nil {
		return eyeMetrics{}, geometryErr(err)
	}
	m.bpd = -(browY - cy) / r

	return m, nil
}

func hoodingIndex(foldAreaPx, irisRadius float64) float64 {
	if foldAreaPx <= 0 {
		return 0
	}
	return foldAreaPx / (math.Pi * irisRadius * irisRadius)
}

// ComputeFrontMetrics measures both eyes independently. The canthal tilt uses
// the left eye as the reference axis. Callers holding a single combined eye
// block pass it as both left and right.
func (e *Engine) ComputeFrontMetrics(left, right entity.LandmarkSet, cal entity.Calibration, fold entity.FoldAreas) (FrontResult, error) {
	l, err := measureEye(left)
	if err != nil {
		return FrontResult{}, fmt.Errorf("left eye: %w", err)
	}
	r, err := measureEye(right)
	if err != nil {
		return FrontResult{}, fmt.Errorf("right eye: %w", err)
	}

	scale, mode, err := e.ResolveScale(cal, (left.IrisRadius+right.IrisRadius)/2)
	if err != nil {
		return FrontResult{}, err
	}

	return FrontResult{
		Metrics: entity.FrontMetrics{
			MRD1L: l.mrd1, MRD1R: r.mrd1,
			MRD2L: l.mrd2, MRD2R: r.mrd2,
			PFHL: l.pfh, PFHR: r.pfh,

			TPSMidL: l.tpsMid, TPSMidR: r.tpsMid,
			TPSMedL: l.tpsMed, TPSMedR: r.tpsMed,
			TPSLatL: l.tpsLat, TPSLatR: r.tpsLat,

			BPDL: l.bpd, BPDR: r.bpd,

			CanthalTiltDeg: geometry.Angle(left.MedialCanthus, left.LateralCanthus),

			LatHoodingIdxL: hoodingIndex(fold.LeftPx, left.IrisRadius),
			LatHoodingIdxR: hoodingIndex(fold.RightPx, right.IrisRadius),
		},
		MMPerPx:         scale,
		CalibrationMode: mode,
	}, nil
}
