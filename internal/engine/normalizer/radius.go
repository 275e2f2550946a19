// internal/engine/normalizer/radius.go
package normalizer

import (
	"math"

	"sitegen-workers/internal/models"
)

const (
	earthRadiusMiles = 3959.0
	kmToMiles        = 0.621371

	defaultRadiusMiles      = 15.0
	defaultRadiusConfidence = 0.3
)

// Basis labels recorded on the normalized record so downstream consumers can
// tell how the radius was obtained.
const (
	RadiusBasisField     = "radius-field"
	RadiusBasisPolygon   = "polygon"
	RadiusBasisPlaceList = "place-list"
	RadiusBasisDefault   = "default"
)

// RadiusResult is the outcome of the service-area cascade.
type RadiusResult struct {
	Miles      float64
	Confidence float64
	Basis      string
	Inferred   bool
}

// DeriveRadius resolves a service radius in miles from whatever shape of
// service-area data the profile carries. The cascade tries, in order: an
// explicit radius field, a polygon boundary, a list of covered places, and
// finally a conservative default.
func DeriveRadius(area *models.ServiceArea) RadiusResult {
	if area == nil {
		return RadiusResult{
			Miles:      defaultRadiusMiles,
			Confidence: defaultRadiusConfidence,
			Basis:      RadiusBasisDefault,
			Inferred:   true,
		}
	}

	if area.RadiusValue != nil && *area.RadiusValue > 0 {
		miles := *area.RadiusValue
		if area.RadiusUnit == "km" {
			miles *= kmToMiles
		}
		// Explicit radii are kept as stated; only estimates get snapped
		// to 5-mile steps.
		return RadiusResult{
			Miles:      miles,
			Confidence: 0.9,
			Basis:      RadiusBasisField,
		}
	}

	if len(area.Polygon) >= 3 {
		return RadiusResult{
			Miles:      polygonRadius(area.Polygon),
			Confidence: 0.95,
			Basis:      RadiusBasisPolygon,
			Inferred:   true,
		}
	}

	if len(area.Places) > 0 {
		miles, confidence := placeListRadius(area.Places)
		return RadiusResult{
			Miles:      miles,
			Confidence: confidence,
			Basis:      RadiusBasisPlaceList,
			Inferred:   true,
		}
	}

	return RadiusResult{
		Miles:      defaultRadiusMiles,
		Confidence: defaultRadiusConfidence,
		Basis:      RadiusBasisDefault,
		Inferred:   true,
	}
}

// polygonRadius takes the maximum great-circle distance from the polygon's
// centroid to any vertex, rounded to the nearest 5 miles.
func polygonRadius(polygon []models.Coordinate) float64 {
	centroid := models.Coordinate{}
	for _, p := range polygon {
		centroid.Lat += p.Lat
		centroid.Lng += p.Lng
	}
	centroid.Lat /= float64(len(polygon))
	centroid.Lng /= float64(len(polygon))

	max := 0.0
	for _, p := range polygon {
		if d := Haversine(centroid, p); d > max {
			max = d
		}
	}
	return roundToFive(max)
}

// placeListRadius estimates coverage from the covered-place list. One place
// is sized by its administrative type; multiple places widen the estimate in
// tiers. Confidence starts at 0.4, rises when the place types are homogeneous
// and when the list is small enough to be a deliberate selection.
func placeListRadius(places []models.PlaceRef) (float64, float64) {
	var miles float64
	switch n := len(places); {
	case n == 1:
		switch places[0].Type {
		case models.PlaceTypeState:
			miles = 100
		case models.PlaceTypeCounty:
			miles = 50
		default:
			miles = 10
		}
	case n <= 3:
		miles = 20
	case n <= 10:
		miles = 30
	case n <= 20:
		miles = 50
	default:
		miles = 75
	}

	confidence := 0.4
	if homogeneousTypes(places) {
		confidence += 0.2
	}
	if len(places) <= 3 {
		confidence += 0.1
	}
	return miles, confidence
}

func homogeneousTypes(places []models.PlaceRef) bool {
	for _, p := range places[1:] {
		if p.Type != places[0].Type {
			return false
		}
	}
	return true
}

// Haversine returns the great-circle distance between two coordinates in miles.
func Haversine(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// roundToFive rounds to the nearest 5 with a floor of 5.
func roundToFive(miles float64) float64 {
	rounded := math.Round(miles/5) * 5
	if rounded < 5 {
		return 5
	}
	return rounded
}
