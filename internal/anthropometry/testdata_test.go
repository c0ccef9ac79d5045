package anthropometry

import "UBASAnthropometry/internal/entity"

// sampleEye is a level eye centred at (100,100) with a 10px iris radius.
func sampleEye() entity.LandmarkSet {
	return entity.LandmarkSet{
		UpperLid:       entity.Polyline{{X: 80, Y: 92}, {X: 100, Y: 90}, {X: 120, Y: 92}},
		LowerLid:       entity.Polyline{{X: 80, Y: 104}, {X: 100, Y: 105}, {X: 120, Y: 104}},
		LashLine:       entity.Polyline{{X: 88, Y: 96}, {X: 100, Y: 95}, {X: 116, Y: 94}},
		CreaseLine:     entity.Polyline{{X: 88, Y: 90}, {X: 100, Y: 92}, {X: 116, Y: 93}},
		BrowCurve:      entity.Polyline{{X: 70, Y: 72}, {X: 100, Y: 70}, {X: 130, Y: 73}},
		MedialCanthus:  entity.Point{X: 60, Y: 100},
		LateralCanthus: entity.Point{X: 140, Y: 100},
		IrisCenter:     entity.Point{X: 100, Y: 100},
		IrisRadius:     10,
	}
}

func ptr(v float64) *float64 {
	return &v
}
