package entity

// FrontMetrics holds per-eye front-view measurements in iris-radius units.
type FrontMetrics struct {
	MRD1L float64 `json:"mrd1_L"`
	MRD1R float64 `json:"mrd1_R"`
	MRD2L float64 `json:"mrd2_L"`
	MRD2R float64 `json:"mrd2_R"`
	PFHL  float64 `json:"pfh_L"`
	PFHR  float64 `json:"pfh_R"`

	TPSMidL float64 `json:"tps_mid_L"`
	TPSMidR float64 `json:"tps_mid_R"`
	TPSMedL float64 `json:"tps_med_L"`
	TPSMedR float64 `json:"tps_med_R"`
	TPSLatL float64 `json:"tps_lat_L"`
	TPSLatR float64 `json:"tps_lat_R"`

	BPDL float64 `json:"bpd_L"`
	BPDR float64 `json:"bpd_R"`

	CanthalTiltDeg float64 `json:"canthal_tilt_deg"`

	LatHoodingIdxL float64 `json:"lat_hooding_idx_L"`
	LatHoodingIdxR float64 `json:"lat_hooding_idx_R"`
}

func mean(a, b float64) float64 {
	return (a + b) / 2
}

func (f FrontMetrics) MeanMRD1() float64   { return mean(f.MRD1L, f.MRD1R) }
func (f FrontMetrics) MeanPFH() float64    { return mean(f.PFHL, f.PFHR) }
func (f FrontMetrics) MeanTPSMid() float64 { return mean(f.TPSMidL, f.TPSMidR) }
func (f FrontMetrics) MeanTPSMed() float64 { return mean(f.TPSMedL, f.TPSMedR) }
func (f FrontMetrics) MeanTPSLat() float64 { return mean(f.TPSLatL, f.TPSLatR) }
func (f FrontMetrics) MeanBPD() float64    { return mean(f.BPDL, f.BPDR) }

// SideMetrics holds side-view measurements, normalised by iris radius where applicable.
type SideMetrics struct {
	SulcusConcavityIdx      float64 `json:"sulcus_concavity_idx"`
	BrowGlobeVector         float64 `json:"brow_globe_vector"`
	LashVectorAngleDeltaDeg float64 `json:"lash_vector_angle_delta_deg"`
}

// SideObservation is either NoSideCapture or SideCaptured. Scoring accepts
// both by value or pointer; a nil observation means no side capture.
type SideObservation interface {
	sideObservation()
}

type NoSideCapture struct{}

type SideCaptured struct {
	Metrics SideMetrics
}

func (NoSideCapture) sideObservation() {}
func (SideCaptured) sideObservation()  {}

// ObserveSide wraps optional side metrics into a SideObservation.
func ObserveSide(m *SideMetrics) SideObservation {
	if m == nil {
		return NoSideCapture{}
	}
	return SideCaptured{Metrics: *m}
}

// Baseline is an optional pre-op reference used for the change-based rubric items.
type Baseline struct {
	Front FrontMetrics `json:"front"`
	Side  *SideMetrics `json:"side,omitempty"`
}
