package server

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storelocator/internal/quotation"
	"storelocator/internal/store"
)

type fakeQuoter struct {
	resp    quotation.Response
	err     error
	gotCode string
	gotPage quotation.Page
}

func (f *fakeQuoter) Quote(_ context.Context, postal string, page quotation.Page) (quotation.Response, error) {
	f.gotCode, f.gotPage = postal, page
	return f.resp, f.err
}

// memStores is an in-memory store.Repository.
type memStores struct {
	mu     sync.Mutex
	byID   map[string]store.Store
	failed error
}

func newMemStores(stores ...store.Store) *memStores {
	m := &memStores{byID: map[string]store.Store{}}
	for _, s := range stores {
		if err := s.Normalize(); err != nil {
			panic(err)
		}
		m.byID[s.StoreID] = s
	}
	return m
}

func (m *memStores) sorted(keep func(store.Store) bool) []store.Store {
	out := []store.Store{}
	for _, s := range m.byID {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

func window(all []store.Store, limit, offset int) store.Page {
	start := min(offset, len(all))
	end := min(start+limit, len(all))
	return store.Page{Stores: all[start:end], Limit: limit, Offset: offset, Total: len(all)}
}

func (m *memStores) Create(_ context.Context, s store.Store) (store.Store, error) {
	if err := s.Normalize(); err != nil {
		return store.Store{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.StoreID]; ok {
		return store.Store{}, store.ErrConflict
	}
	m.byID[s.StoreID] = s
	return s, nil
}

func (m *memStores) List(_ context.Context, limit, offset int) (store.Page, error) {
	if m.failed != nil {
		return store.Page{}, m.failed
	}
	return window(m.sorted(func(store.Store) bool { return true }), limit, offset), nil
}

func (m *memStores) FindByID(_ context.Context, id string) (store.Store, error) {
	s, ok := m.byID[id]
	if !ok {
		return store.Store{}, store.ErrNotFound
	}
	return s, nil
}

func (m *memStores) FindByState(_ context.Context, state string, limit, offset int) (store.Page, error) {
	return window(m.sorted(func(s store.Store) bool { return s.State == state }), limit, offset), nil
}

func (m *memStores) FindByPostalPrefix(_ context.Context, prefix string, limit, offset int) (store.Page, error) {
	return window(m.sorted(func(s store.Store) bool { return strings.HasPrefix(s.PostalCode, prefix) }), limit, offset), nil
}

func (m *memStores) FindByRegion(_ context.Context, region string) ([]store.Store, error) {
	return m.sorted(func(s store.Store) bool { return s.State == region }), nil
}

func (m *memStores) FindByGeohashPrefixes(_ context.Context, prefixes []string) ([]store.Store, error) {
	return m.sorted(func(s store.Store) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(s.Geohash, p) {
				return true
			}
		}
		return false
	}), nil
}

func (m *memStores) All(context.Context) ([]store.Store, error) {
	return m.sorted(func(store.Store) bool { return true }), nil
}

func sampleStore(id, state, postal string, lat, lng float64) store.Store {
	return store.Store{
		StoreID:            id,
		StoreName:          "Loja " + id,
		ShippingTimeInDays: 1,
		Latitude:           lat,
		Longitude:          lng,
		Address1:           "Av. Paulista, 1000",
		City:               "São Paulo",
		District:           "Bela Vista",
		State:              state,
		Type:               store.TypePDV,
		PostalCode:         postal,
	}
}
