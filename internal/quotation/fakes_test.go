package quotation

import (
	"context"
	"errors"
	"sync"

	"storelocator/internal/address"
	"storelocator/internal/distance"
	"storelocator/internal/rate"
	"storelocator/internal/store"
)

type fakeAddress struct {
	addr address.Address
	err  error
}

func (f *fakeAddress) Resolve(_ context.Context, postal string) (address.Address, error) {
	if f.err != nil {
		return address.Address{}, f.err
	}
	a := f.addr
	a.PostalCode = postal
	return a, nil
}

type fakeCatalog struct {
	stores     []store.Store
	err        error
	lastRegion string
}

func (f *fakeCatalog) FindByRegion(_ context.Context, region string) ([]store.Store, error) {
	f.lastRegion = region
	return f.stores, f.err
}

// fakeMatrix answers by destination postal code.
type fakeMatrix struct {
	mu       sync.Mutex
	elements map[string]distance.Element
	errs     map[string]error
	calls    []string
	hook     func(dest string)
}

func (f *fakeMatrix) Distance(_ context.Context, origin, dest string) (distance.Element, error) {
	f.mu.Lock()
	f.calls = append(f.calls, dest)
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(dest)
	}
	if err, ok := f.errs[dest]; ok {
		return distance.Element{}, err
	}
	if el, ok := f.elements[dest]; ok {
		return el, nil
	}
	return distance.Element{}, errors.New("no route")
}

type fakeQuoter struct {
	mu    sync.Mutex
	res   rate.Result
	calls int
}

func (f *fakeQuoter) Quote(context.Context, string, string) rate.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.res
}

func meters(m float64, duration string) distance.Element {
	return distance.Element{Status: "OK", DistanceMeters: m, DurationText: duration}
}

func pdv(id, postal string, days int) store.Store {
	return store.Store{
		StoreID: id, StoreName: "PDV " + id, City: "São Paulo", State: "SP",
		Type: store.TypePDV, PostalCode: postal, ShippingTimeInDays: days,
		Latitude: -23.56, Longitude: -46.65,
	}
}

func loja(id, postal string) store.Store {
	return store.Store{
		StoreID: id, StoreName: "Loja " + id, City: "Campinas", State: "SP",
		Type: store.TypeLoja, PostalCode: postal, ShippingTimeInDays: 3,
		Latitude: -22.90, Longitude: -47.06,
	}
}
