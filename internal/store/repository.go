package store

import (
	"context"
	"errors"
)

var (
	ErrInvalid  = errors.New("invalid store")
	ErrNotFound = errors.New("store not found")
	ErrConflict = errors.New("store already exists")
)

// Page is one window of a store listing. Total counts every match, not just Stores.
type Page struct {
	Stores []Store `json:"stores"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
}

// Repository is the persistent store catalog.
type Repository interface {
	Create(ctx context.Context, s Store) (Store, error)
	List(ctx context.Context, limit, offset int) (Page, error)
	FindByID(ctx context.Context, storeID string) (Store, error)
	FindByState(ctx context.Context, state string, limit, offset int) (Page, error)
	FindByPostalPrefix(ctx context.Context, prefix string, limit, offset int) (Page, error)
	// FindByRegion returns every store of a two-letter region, ordered by store id.
	FindByRegion(ctx context.Context, region string) ([]Store, error)
	// FindByGeohashPrefixes returns stores whose geohash starts with any of prefixes.
	FindByGeohashPrefixes(ctx context.Context, prefixes []string) ([]Store, error)
	// All returns the full catalog.
	All(ctx context.Context) ([]Store, error)
}
