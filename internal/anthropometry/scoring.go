package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"math"
)

// Score grades front (and optional side) metrics on the UBAS-FS 30 rubric.
// baseline is the optional pre-op reference for the change-based brow items;
// without it both changes are taken as 0.
func (e *Engine) Score(front entity.FrontMetrics, side entity.SideObservation, baseline *entity.Baseline) entity.UBASScore {
	t := e.cfg.Rubric
	rubric := make([]entity.RubricItem, 0, 10)
	add := func(name string, ladder Ladder, points int) {
		rubric = append(rubric, entity.RubricItem{Name: name, Points: points, Max: ladder.Max()})
	}

	add(entity.ItemTPSGain, t.TPSGain, t.TPSGain.Points(front.MeanTPSMid()))

	ratio := math.Inf(1)
	if lat := front.MeanTPSLat(); math.Abs(lat) > t.BalanceEpsilon {
		ratio = front.MeanTPSMed() / lat
	}
	add(entity.ItemTPSBalance, t.TPSBalance, t.TPSBalance.Points(ratio))

	add(entity.ItemMRD1Change, t.MRD1Change, t.MRD1Change.Points(front.MeanMRD1()))
	add(entity.ItemPFHBand, t.PFHBand, t.PFHBand.Points(front.MeanPFH()))
	add(entity.ItemCreaseSymmetry, t.CreaseSymmetry, t.CreaseSymmetry.Points(math.Abs(front.TPSMidL-front.TPSMidR)))
	add(entity.ItemCreaseContinuity, t.CreaseContinuity, t.CreaseContinuity.Points(t.CreaseContinuityPlaceholder))

	var browChange float64
	if baseline != nil {
		browChange = math.Abs(front.MeanBPD() - baseline.Front.MeanBPD())
	}
	add(entity.ItemBrowStability, t.BrowStability, t.BrowStability.Points(browChange))

	if m, ok := capturedSide(side); ok {
		add(entity.ItemSulcusConcavity, t.SulcusConcavity, t.SulcusConcavity.Points(m.SulcusConcavityIdx))

		var bgvChange float64
		if baseline != nil && baseline.Side != nil {
			bgvChange = math.Abs(m.BrowGlobeVector - baseline.Side.BrowGlobeVector)
		}
		add(entity.ItemBrowGlobeVector, t.BrowGlobeVector, t.BrowGlobeVector.Points(bgvChange))

		add(entity.ItemLashVector, t.LashVector, t.LashVector.Points(math.Abs(m.LashVectorAngleDeltaDeg)))
	} else {
		add(entity.ItemSulcusConcavity, t.SulcusConcavity, t.NeutralSidePoints)
		add(entity.ItemBrowGlobeVector, t.BrowGlobeVector, t.NeutralSidePoints)
		add(entity.ItemLashVector, t.LashVector, t.NeutralSidePoints)
	}

	points := make(map[string]int, len(rubric))
	total := 0
	for _, item := range rubric {
		points[item.Name] = item.Points
		total += item.Points
	}

	return entity.UBASScore{
		Total: total,
		Band:  e.band(total),
		Subscores: map[string]int{
			entity.SubscaleFrontSymmetry:  points[entity.ItemCreaseSymmetry] + points[entity.ItemCreaseContinuity],
			entity.SubscaleTarsalShow:     points[entity.ItemTPSGain] + points[entity.ItemTPSBalance],
			entity.SubscaleFunction:       points[entity.ItemMRD1Change],
			entity.SubscaleBrowStability:  points[entity.ItemBrowGlobeVector] + points[entity.ItemBrowStability],
			entity.SubscaleSulcusFullness: points[entity.ItemSulcusConcavity] + points[entity.ItemLashVector],
		},
		Rubric: rubric,
	}
}

func (e *Engine) band(total int) entity.Band {
	b := e.cfg.Rubric.Bands
	switch {
	case total >= b.Excellent:
		return entity.BandExcellent
	case total >= b.Good:
		return entity.BandGood
	case total >= b.Acceptable:
		return entity.BandAcceptable
	default:
		return entity.BandSuboptimal
	}
}

// capturedSide unwraps the side metrics of a SideCaptured, given by value or
// by non-nil pointer. Every other observation, nil included, is no capture.
func capturedSide(side entity.SideObservation) (entity.SideMetrics, bool) {
	switch s := side.(type) {
	case entity.SideCaptured:
		return s.Metrics, true
	case *entity.SideCaptured:
		if s != nil {
			return s.Metrics, true
		}
	}
	return entity.SideMetrics{}, false
}
