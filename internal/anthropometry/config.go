package anthropometry

import "math"

// Config gathers every constant the engine depends on. DefaultConfig returns a
// fresh value on each call so callers can adjust a copy without affecting others.
type Config struct {
	Calibration CalibrationDefaults
	QC          QCLimits
	Rubric      RubricThresholds
}

type CalibrationDefaults struct {
	IrisDiamMM    float64
	StickerDiamMM float64
}

type QCLimits struct {
	MinWidth           int
	MinHeight          int
	MaxCanthalAngleDeg float64
	MaxHeadRollDeg     float64
}

// Column positions along the medial->lateral canthus axis.
const (
	MedialColumnFraction  = 0.35
	LateralColumnFraction = 0.70
)

// Range is an interval over the reals. Open ends exclude the bound.
type Range struct {
	Min, Max         float64
	MinOpen, MaxOpen bool
}

func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if v < r.Min || (r.MinOpen && v == r.Min) {
		return false
	}
	if v > r.Max || (r.MaxOpen && v == r.Max) {
		return false
	}
	return true
}

func closed(lo, hi float64) Range     { return Range{Min: lo, Max: hi} }
func closedOpen(lo, hi float64) Range { return Range{Min: lo, Max: hi, MaxOpen: true} }
func openClosed(lo, hi float64) Range { return Range{Min: lo, Max: hi, MinOpen: true} }
func above(lo float64) Range          { return Range{Min: lo, Max: math.Inf(1), MinOpen: true} }
func below(hi float64) Range          { return Range{Min: math.Inf(-1), Max: hi, MaxOpen: true} }
func atMost(hi float64) Range         { return Range{Min: math.Inf(-1), Max: hi} }
func atLeast(lo float64) Range        { return Range{Min: lo, Max: math.Inf(1)} }
func exactly(v float64) Range         { return Range{Min: v, Max: v} }

// Step awards Points when the value falls in any of Ranges.
type Step struct {
	Points int
	Ranges []Range
}

// Ladder is evaluated top to bottom and the first matching step wins.
// A value matching no step scores 0.
type Ladder []Step

func (l Ladder) Points(v float64) int {
	for _, step := range l {
		for _, r := range step.Ranges {
			if r.Contains(v) {
				return step.Points
			}
		}
	}
	return 0
}

func (l Ladder) Max() int {
	best := 0
	for _, step := range l {
		if step.Points > best {
			best = step.Points
		}
	}
	return best
}

type BandCutoffs struct {
	Excellent  int
	Good       int
	Acceptable int
}

type RubricThresholds struct {
	TPSGain          Ladder
	TPSBalance       Ladder
	MRD1Change       Ladder
	PFHBand          Ladder
	CreaseSymmetry   Ladder
	CreaseContinuity Ladder
	BrowStability    Ladder
	SulcusConcavity  Ladder
	BrowGlobeVector  Ladder
	LashVector       Ladder

	// CreaseContinuityPlaceholder stands in for a crease continuity fraction
	// until crease segmentation is available as an input.
	CreaseContinuityPlaceholder float64
	// NeutralSidePoints is awarded to each side-view item when no side capture exists.
	NeutralSidePoints int
	// BalanceEpsilon below which the lateral TPS mean counts as zero.
	BalanceEpsilon float64

	Bands BandCutoffs
}

func DefaultConfig() Config {
	return Config{
		Calibration: CalibrationDefaults{
			IrisDiamMM:    11.8,
			StickerDiamMM: 10.0,
		},
		QC: QCLimits{
			MinWidth:           480,
			MinHeight:          480,
			MaxCanthalAngleDeg: 3,
			MaxHeadRollDeg:     3,
		},
		Rubric: RubricThresholds{
			TPSGain: Ladder{
				{Points: 3, Ranges: []Range{above(0.35)}},
				{Points: 2, Ranges: []Range{closed(0.25, 0.35)}},
				{Points: 1, Ranges: []Range{closedOpen(0.15, 0.25)}},
			},
			TPSBalance: Ladder{
				{Points: 3, Ranges: []Range{closed(0.8, 1.2)}},
				{Points: 2, Ranges: []Range{openClosed(1.2, 1.3), closedOpen(0.77, 0.8)}},
				{Points: 1, Ranges: []Range{openClosed(1.3, 1.6), closedOpen(0.6, 0.77)}},
			},
			MRD1Change: Ladder{
				{Points: 3, Ranges: []Range{above(0.15)}},
				{Points: 2, Ranges: []Range{closed(0.10, 0.15)}},
				{Points: 1, Ranges: []Range{closedOpen(0.05, 0.10)}},
			},
			PFHBand: Ladder{
				{Points: 3, Ranges: []Range{closed(0.75, 0.95)}},
				{Points: 2, Ranges: []Range{closedOpen(0.70, 0.75), openClosed(0.95, 1.00)}},
				{Points: 1, Ranges: []Range{closedOpen(0.60, 0.70), openClosed(1.00, 1.10)}},
			},
			CreaseSymmetry: Ladder{
				{Points: 3, Ranges: []Range{below(0.085)}},
				{Points: 2, Ranges: []Range{below(0.127)}},
				{Points: 1, Ranges: []Range{below(0.170)}},
			},
			CreaseContinuity: Ladder{
				{Points: 3, Ranges: []Range{atLeast(0.95)}},
				{Points: 2, Ranges: []Range{atLeast(0.85)}},
				{Points: 1, Ranges: []Range{atLeast(0.70)}},
			},
			BrowStability: Ladder{
				{Points: 3, Ranges: []Range{exactly(0)}},
				{Points: 2, Ranges: []Range{below(0.05)}},
				{Points: 1, Ranges: []Range{below(0.10)}},
			},
			SulcusConcavity: Ladder{
				{Points: 3, Ranges: []Range{atMost(0)}},
				{Points: 2, Ranges: []Range{atMost(0.2)}},
				{Points: 1, Ranges: []Range{atMost(0.5)}},
			},
			BrowGlobeVector: Ladder{
				{Points: 3, Ranges: []Range{atMost(0.02)}},
				{Points: 2, Ranges: []Range{atMost(0.05)}},
				{Points: 1, Ranges: []Range{atMost(0.10)}},
			},
			LashVector: Ladder{
				{Points: 2, Ranges: []Range{atMost(2)}},
				{Points: 1, Ranges: []Range{atMost(6)}},
			},
			CreaseContinuityPlaceholder: 0.9,
			NeutralSidePoints:           2,
			BalanceEpsilon:              1e-6,
			Bands: BandCutoffs{
				Excellent:  26,
				Good:       21,
				Acceptable: 16,
			},
		},
	}
}
