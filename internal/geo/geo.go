package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

const earthRadiusKm = 6371.0

// Point is a WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm returns the great-circle distance between a and b using the haversine formula.
func DistanceKm(a, b Point) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180.0 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HashPrecision is the geohash length stored alongside each store.
const HashPrecision = 6

// Hash encodes p at HashPrecision.
func Hash(p Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, HashPrecision)
}

// kmPerDegree is the length of one degree of arc on the mean-radius sphere.
const kmPerDegree = earthRadiusKm * math.Pi / 180.0

// maxCoverPrecision is the longest prefix CoverPrefixes will use.
const maxCoverPrecision = 5

// cellSideKm returns the height and the narrowest width of a geohash cell of
// the given length, the width taken at latitude maxAbsLat.
func cellSideKm(precision uint, maxAbsLat float64) (height, width float64) {
	bits := 5 * precision
	lngBits := (bits + 1) / 2
	latBits := bits / 2
	height = 180.0 / math.Exp2(float64(latBits)) * kmPerDegree
	width = 360.0 / math.Exp2(float64(lngBits)) * kmPerDegree * math.Cos(maxAbsLat*math.Pi/180.0)
	return height, width
}

// CoverPrefixes returns geohash prefixes whose cells together contain every
// point within radiusKm of center: the center cell plus its eight neighbours,
// at the longest precision whose cell is at least radiusKm tall and at least
// radiusKm wide everywhere the circle reaches. Cells narrow toward the poles,
// so the width is checked at the circle's highest |lat|.
// A nil result means no precision is coarse enough to narrow anything.
func CoverPrefixes(center Point, radiusKm float64) []string {
	if radiusKm < 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return nil
	}
	maxAbsLat := math.Abs(center.Lat) + radiusKm/kmPerDegree
	if maxAbsLat >= 90 {
		return nil
	}
	for p := uint(maxCoverPrecision); p >= 1; p-- {
		height, width := cellSideKm(p, maxAbsLat)
		if radiusKm > height || radiusKm > width {
			continue
		}
		hash := geohash.EncodeWithPrecision(center.Lat, center.Lng, p)
		return append([]string{hash}, geohash.Neighbors(hash)...)
	}
	return nil
}
