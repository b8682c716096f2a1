package store

import (
	"context"
	"sort"

	"storelocator/internal/geo"
)

// Nearby is a store with its straight-line distance from a search center.
type Nearby struct {
	Store
	DistanceKm float64 `json:"distanceKm"`
}

// WithinRadius keeps the stores at most radiusKm from center, closest first.
func WithinRadius(stores []Store, center geo.Point, radiusKm float64) []Nearby {
	out := make([]Nearby, 0, len(stores))
	for _, s := range stores {
		d := geo.DistanceKm(center, s.Position())
		if d <= radiusKm {
			out = append(out, Nearby{Store: s, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// FindNear narrows the catalog with a geohash cover of the radius and then
// filters by great-circle distance.
func FindNear(ctx context.Context, repo Repository, center geo.Point, radiusKm float64) ([]Nearby, error) {
	var (
		candidates []Store
		err        error
	)
	if prefixes := geo.CoverPrefixes(center, radiusKm); prefixes != nil {
		candidates, err = repo.FindByGeohashPrefixes(ctx, prefixes)
	} else {
		candidates, err = repo.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	return WithinRadius(candidates, center, radiusKm), nil
}
