package entity

type Band string

const (
	BandExcellent  Band = "Excellent"
	BandGood       Band = "Good"
	BandAcceptable Band = "Acceptable"
	BandSuboptimal Band = "Suboptimal"
)

const (
	ItemTPSGain          = "TPS gain (mid)"
	ItemTPSBalance       = "TPS balance (M:L)"
	ItemMRD1Change       = "MRD1 change"
	ItemPFHBand          = "PFH band"
	ItemCreaseSymmetry   = "Crease symmetry"
	ItemCreaseContinuity = "Crease continuity"
	ItemBrowStability    = "Brow stability"
	ItemSulcusConcavity  = "Sulcus concavity"
	ItemBrowGlobeVector  = "Brow–globe vector"
	ItemLashVector       = "Lash vector"
)

const (
	SubscaleFrontSymmetry  = "Front Symmetry"
	SubscaleTarsalShow     = "Tarsal Show"
	SubscaleFunction       = "Function (MRD1)"
	SubscaleBrowStability  = "Brow Stability"
	SubscaleSulcusFullness = "Sulcus Fullness"
)

type RubricItem struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Max    int    `json:"max"`
}

// UBASScore is the 30-point rubric result. Rubric keeps the rubric order.
type UBASScore struct {
	Total     int            `json:"total"`
	Band      Band           `json:"band"`
	Subscores map[string]int `json:"subscores"`
	Rubric    []RubricItem   `json:"rubric"`
}

// Points returns the points awarded to the named rubric item.
func (s UBASScore) Points(item string) (int, bool) {
	for _, r := range s.Rubric {
		if r.Name == item {
			return r.Points, true
		}
	}
	return 0, false
}
