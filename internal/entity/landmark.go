package entity

import "UBASAnthropometry/pkg/geometry"

type Point = geometry.Point

type Polyline = geometry.Polyline

// LandmarkSet is the front-view geometry of one eye block as produced by the
// landmark extractor. Radii are in pixels.
type LandmarkSet struct {
	UpperLid       Polyline           `json:"upper_lid"`
	LowerLid       Polyline           `json:"lower_lid"`
	LashLine       Polyline           `json:"lash_line"`
	CreaseLine     Polyline           `json:"crease_line"`
	BrowCurve      Polyline           `json:"brow_curve"`
	MedialCanthus  Point              `json:"medial_canthus"`
	LateralCanthus Point              `json:"lateral_canthus"`
	IrisCenter     Point              `json:"iris_center"`
	IrisRadius     float64            `json:"iris_radius"`
	Confidences    map[string]float64 `json:"confidences,omitempty"`
}

// SideFeatures is the side-view geometry used for sulcus and brow measurements.
type SideFeatures struct {
	CreaseLine      Polyline `json:"crease_line"`
	SkinAboveCrease Polyline `json:"skin_above_crease"`
	BrowCurve       Polyline `json:"brow_curve"`
	LashLine        Polyline `json:"lash_line"`
	CornealApex     Point    `json:"corneal_apex"`
	IrisCenter      Point    `json:"iris_center"`
	IrisRadius      float64  `json:"iris_radius"`
}

// FoldAreas carries the observed lateral-fold pixel areas per eye. Fold
// segmentation happens outside this service; zero means none supplied.
type FoldAreas struct {
	LeftPx  float64 `json:"left_px"`
	RightPx float64 `json:"right_px"`
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FrontExtraction is what the landmark extractor returns for a front photograph.
// Right is nil when the extractor only produced one combined eye block.
type FrontExtraction struct {
	FaceFound   bool         `json:"face_found"`
	Left        *LandmarkSet `json:"left,omitempty"`
	Right       *LandmarkSet `json:"right,omitempty"`
	FaceRollDeg float64      `json:"face_roll_deg"`
	Resolution  Resolution   `json:"resolution"`
}

// SideExtraction is what the landmark extractor returns for a side photograph.
type SideExtraction struct {
	FaceFound  bool          `json:"face_found"`
	Features   *SideFeatures `json:"features,omitempty"`
	Resolution Resolution    `json:"resolution"`
}
