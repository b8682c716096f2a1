package quotation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storelocator/internal/delivery"
	"storelocator/internal/distance"
	"storelocator/internal/geo"
	"storelocator/internal/logger"
	"storelocator/internal/rate"
	"storelocator/internal/store"
)

// StoreResult is one store with the ways it can deliver to the requested postal code.
type StoreResult struct {
	StoreID    string            `json:"storeID"`
	Name       string            `json:"name"`
	City       string            `json:"city"`
	PostalCode string            `json:"postalCode"`
	Type       store.Type        `json:"type"`
	Distance   string            `json:"distance"`
	Duration   string            `json:"duration,omitempty"`
	Options    []delivery.Option `json:"value"`
	Position   geo.Point         `json:"position"`
}

// Resolver works out the delivery options of a single store.
type Resolver struct {
	matrix     distance.Matrix
	quoter     rate.Quoter
	normalizer rate.Normalizer
	policy     delivery.Policy
	log        *zap.Logger
}

func NewResolver(m distance.Matrix, q rate.Quoter, p delivery.Policy, l *zap.Logger) *Resolver {
	l = logger.OrNop(l)
	return &Resolver{
		matrix:     m,
		quoter:     q,
		normalizer: rate.NewNormalizer(p, l),
		policy:     p,
		log:        l,
	}
}

// Resolve fetches the driving distance from origin to s, classifies s as
// courier or parcel and builds its options. A failed distance lookup is the
// only error; it wraps ErrStoreSkipped.
func (r *Resolver) Resolve(ctx context.Context, s store.Store, origin string) (StoreResult, error) {
	el, err := r.matrix.Distance(ctx, origin, s.PostalCode)
	if err != nil {
		return StoreResult{}, fmt.Errorf("%w: %s: %v", ErrStoreSkipped, s.StoreID, err)
	}

	res := StoreResult{
		StoreID:    s.StoreID,
		Name:       s.StoreName,
		City:       s.City,
		PostalCode: s.PostalCode,
		Type:       s.Type,
		Distance:   delivery.FormatDistance(el.DistanceMeters),
		Duration:   el.DurationText,
		Options:    []delivery.Option{},
		Position:   s.Position(),
	}

	switch {
	case r.isLocal(s, el.DistanceMeters):
		res.Options = []delivery.Option{r.policy.LocalOption(s.ShippingTimeInDays)}
	case s.Type == store.TypeLoja:
		quote := r.quoter.Quote(ctx, origin, s.PostalCode)
		res.Options = r.normalizer.Normalize(origin, s.PostalCode, quote)
	default:
		// PDV beyond courier range: still on the map, nothing to offer.
		r.log.Debug("pickup store out of courier range",
			zap.String("store_id", s.StoreID), zap.Float64("distance_m", el.DistanceMeters))
	}
	return res, nil
}

// isLocal: courier delivery needs a PDV store within the policy radius, inclusive.
func (r *Resolver) isLocal(s store.Store, meters float64) bool {
	return s.Type == store.TypePDV && meters <= r.policy.LocalRadiusMeters()
}
