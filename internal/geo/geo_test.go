package geo

import (
	"math"
	"testing"

	"unipool/internal/types"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 3.1201, Lng: 101.6544},
			b:         types.Point{Lat: 3.1201, Lng: 101.6544},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "UM campus to KL Sentral (~5km)",
			a:         types.Point{Lat: 3.1201, Lng: 101.6544},
			b:         types.Point{Lat: 3.1339, Lng: 101.6869},
			wantKm:    4.0,
			tolerance: 1.0,
		},
		{
			name:      "KL to Penang (~290km)",
			a:         types.Point{Lat: 3.1390, Lng: 101.6869},
			b:         types.Point{Lat: 5.4141, Lng: 100.3288},
			wantKm:    290,
			tolerance: 10,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 3.0, Lng: 101.0}
	b := types.Point{Lat: 4.0, Lng: 102.0}
	d1 := DistanceKm(a, b)
	d2 := DistanceKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		want      float64
		tolerance float64
	}{
		{name: "due north", a: types.Point{Lat: 3.0, Lng: 101.0}, b: types.Point{Lat: 4.0, Lng: 101.0}, want: 0, tolerance: 0.1},
		{name: "due east", a: types.Point{Lat: 0.0, Lng: 101.0}, b: types.Point{Lat: 0.0, Lng: 102.0}, want: 90, tolerance: 0.1},
		{name: "due south", a: types.Point{Lat: 4.0, Lng: 101.0}, b: types.Point{Lat: 3.0, Lng: 101.0}, want: 180, tolerance: 0.1},
		{name: "due west", a: types.Point{Lat: 0.0, Lng: 102.0}, b: types.Point{Lat: 0.0, Lng: 101.0}, want: 270, tolerance: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("BearingDegrees() = %f, want %f", got, tt.want)
			}
		})
	}
}
