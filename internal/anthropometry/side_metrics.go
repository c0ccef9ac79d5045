package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"UBASAnthropometry/pkg/geometry"
	"fmt"
)

func lashAngle(line geometry.Polyline) float64 {
	if len(line) < 2 {
		return 0
	}
	return geometry.Angle(line[0], line[len(line)-1])
}

// ComputeSideMetrics derives sulcus and brow measurements from a side capture.
// reference, when given, is the capture the lash vector is compared against;
// without one the lash delta is 0.
func (e *Engine) ComputeSideMetrics(sf entity.SideFeatures, reference *entity.SideFeatures) (entity.SideMetrics, error) {
	if err := validateSideFeatures(sf); err != nil {
		return entity.SideMetrics{}, err
	}

	r2 := sf.IrisRadius * sf.IrisRadius

	area, err := geometry.TrapezoidArea(sf.SkinAboveCrease, sf.CreaseLine)
	if err != nil {
		return entity.SideMetrics{}, geometryErr(err)
	}

	apex, err := geometry.MinY(sf.SkinAboveCrease)
	if err != nil {
		return entity.SideMetrics{}, geometryErr(err)
	}

	m := entity.SideMetrics{
		SulcusConcavityIdx: area / r2,
		BrowGlobeVector:    (sf.CornealApex.Y - apex.Y) / sf.IrisRadius,
	}

	if reference != nil {
		if len(sf.LashLine) == 0 || len(reference.LashLine) == 0 {
			return entity.SideMetrics{}, fmt.Errorf("lash_line: %w", ErrEmptyPolyline)
		}
		m.LashVectorAngleDeltaDeg = lashAngle(sf.LashLine) - lashAngle(reference.LashLine)
	}

	return m, nil
}
