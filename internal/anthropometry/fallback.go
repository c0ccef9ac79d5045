package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"math"
)

func placeholderCenter(width, height int) (cx, cy, r float64) {
	w, h := float64(width), float64(height)
	return w / 2, h / 2, math.Min(w, h) / 10
}

// NeutralLandmarks is the centred, level geometry substituted when the
// extractor finds no face, so the engine never sees absent data.
func NeutralLandmarks(width, height int) entity.LandmarkSet {
	cx, cy, r := placeholderCenter(width, height)
	return entity.LandmarkSet{
		UpperLid:       entity.Polyline{{X: cx - 40, Y: cy - 20}, {X: cx, Y: cy - 22}, {X: cx + 40, Y: cy - 20}},
		LowerLid:       entity.Polyline{{X: cx - 40, Y: cy + 20}, {X: cx, Y: cy + 22}, {X: cx + 40, Y: cy + 20}},
		LashLine:       entity.Polyline{{X: cx - 40, Y: cy + 5}, {X: cx, Y: cy + 5}, {X: cx + 40, Y: cy + 5}},
		CreaseLine:     entity.Polyline{{X: cx - 40, Y: cy - 15}, {X: cx, Y: cy - 16}, {X: cx + 40, Y: cy - 15}},
		BrowCurve:      entity.Polyline{{X: cx - 60, Y: cy - 60}, {X: cx, Y: cy - 65}, {X: cx + 60, Y: cy - 58}},
		MedialCanthus:  entity.Point{X: cx - 60, Y: cy},
		LateralCanthus: entity.Point{X: cx + 60, Y: cy},
		IrisCenter:     entity.Point{X: cx, Y: cy},
		IrisRadius:     r,
		Confidences:    map[string]float64{},
	}
}

// NeutralSideFeatures is the side-view counterpart of NeutralLandmarks.
func NeutralSideFeatures(width, height int) entity.SideFeatures {
	cx, cy, r := placeholderCenter(width, height)
	return entity.SideFeatures{
		CreaseLine:      entity.Polyline{{X: cx - 40, Y: cy - 10}, {X: cx + 40, Y: cy - 10}},
		SkinAboveCrease: entity.Polyline{{X: cx - 40, Y: cy - 12}, {X: cx, Y: cy - 14}, {X: cx + 40, Y: cy - 13}},
		BrowCurve:       entity.Polyline{{X: cx - 50, Y: cy - 60}, {X: cx + 50, Y: cy - 58}},
		LashLine:        entity.Polyline{{X: cx - 30, Y: cy + 5}, {X: cx + 30, Y: cy + 5}},
		CornealApex:     entity.Point{X: cx + 10, Y: cy},
		IrisCenter:      entity.Point{X: cx, Y: cy},
		IrisRadius:      r,
	}
}

// ResolveFront picks the landmark sets to measure from an extraction,
// substituting neutral geometry when no face was found. A single combined
// block is used for both eyes.
func ResolveFront(ex entity.FrontExtraction) (left, right entity.LandmarkSet, roll float64) {
	if !ex.FaceFound || ex.Left == nil {
		lm := NeutralLandmarks(ex.Resolution.Width, ex.Resolution.Height)
		return lm, lm, 0
	}
	left = *ex.Left
	right = left
	if ex.Right != nil {
		right = *ex.Right
	}
	return left, right, ex.FaceRollDeg
}

// ResolveSide is ResolveFront for side captures.
func ResolveSide(ex entity.SideExtraction) entity.SideFeatures {
	if !ex.FaceFound || ex.Features == nil {
		return NeutralSideFeatures(ex.Resolution.Width, ex.Resolution.Height)
	}
	return *ex.Features
}
