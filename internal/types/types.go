// Package types holds the small value types shared by every module.
package types

// ID is an opaque entity identifier.
type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a coordinate with the display name shown to riders.
type Place struct {
	Point
	Name string `json:"name"`
}
