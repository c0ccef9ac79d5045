package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/geometry"
	"fmt"
	"math"
)

// RunQC checks that a front capture is usable. All checks run; a failure is
// reported through the result, never as an error.
func (e *Engine) RunQC(res entity.Resolution, lm entity.LandmarkSet, headRollDeg float64) entity.QCResult {
	limits := e.cfg.QC
	reasons := make([]string, 0, 3)

	if res.Height < limits.MinHeight || res.Width < limits.MinWidth {
		reasons = append(reasons, fmt.Sprintf("Low resolution: need ≥ %d×%d.", limits.MinWidth, limits.MinHeight))
	}

	canthal := geometry.Angle(lm.MedialCanthus, lm.LateralCanthus)
	if !(math.Abs(canthal) <= limits.MaxCanthalAngleDeg) {
		reasons = append(reasons, "Eye not in primary gaze (canthal line not horizontal).")
	}

	if !(math.Abs(headRollDeg) <= limits.MaxHeadRollDeg) {
		reasons = append(reasons, fmt.Sprintf("Head tilt > %g°.", limits.MaxHeadRollDeg))
	}

	return entity.QCResult{
		Passed:  len(reasons) == 0,
		Reasons: reasons,
	}
}
