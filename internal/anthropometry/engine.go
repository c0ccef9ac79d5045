// Package anthropometry turns eye-region landmarks into normalised eyelid
// measurements, checks capture quality and grades the result on the
// UBAS-FS 30 rubric. Every function is pure over its inputs.
package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/geometry"
	"errors"
	"fmt"
	"math"
)

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func validRadius(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

func requirePolylines(lines map[string]geometry.Polyline) error {
	for name, line := range lines {
		if len(line) == 0 {
			return fmt.Errorf("%s: %w", name, ErrEmptyPolyline)
		}
	}
	return nil
}

func validateLandmarks(lm entity.LandmarkSet) error {
	if !validRadius(lm.IrisRadius) {
		return ErrInvalidIrisRadius
	}
	return requirePolylines(map[string]geometry.Polyline{
		"upper_lid":   lm.UpperLid,
		"lower_lid":   lm.LowerLid,
		"lash_line":   lm.LashLine,
		"crease_line": lm.CreaseLine,
		"brow_curve":  lm.BrowCurve,
	})
}

func validateSideFeatures(sf entity.SideFeatures) error {
	if !validRadius(sf.IrisRadius) {
		return ErrInvalidIrisRadius
	}
	return requirePolylines(map[string]geometry.Polyline{
		"crease_line":       sf.CreaseLine,
		"skin_above_crease": sf.SkinAboveCrease,
	})
}

// geometryErr maps geometry failures onto the engine's own sentinels.
func geometryErr(err error) error {
	if errors.Is(err, geometry.ErrEmptyPolyline) {
		return fmt.Errorf("%v: %w", err, ErrEmptyPolyline)
	}
	return err
}
