package quotation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storelocator/internal/address"
	"storelocator/internal/geo"
	"storelocator/internal/logger"
	"storelocator/internal/store"
)

// Catalog is the part of the store repository a quotation reads.
type Catalog interface {
	FindByRegion(ctx context.Context, region string) ([]store.Store, error)
}

type Pin struct {
	Position geo.Point `json:"position"`
	Title    string    `json:"title"`
}

type Response struct {
	Stores []StoreResult `json:"stores"`
	Pins   []Pin         `json:"pins"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Total  int           `json:"total"`
}

// Page selects a window of the results. The zero Page returns everything.
type Page struct {
	Limit  int
	Offset int
}

type Engine struct {
	address        address.Resolver
	catalog        Catalog
	resolver       *Resolver
	maxConcurrency int
	log            *zap.Logger
}

// NewEngine wires a quotation engine. maxConcurrency bounds how many stores
// are resolved at once; zero or less means no bound.
func NewEngine(a address.Resolver, c Catalog, r *Resolver, maxConcurrency int, l *zap.Logger) *Engine {
	return &Engine{
		address:        a,
		catalog:        c,
		resolver:       r,
		maxConcurrency: maxConcurrency,
		log:            logger.OrNop(l).Named("quotation"),
	}
}

// Quote lists the stores of the region of rawPostalCode with their delivery
// options to it. Stores whose distance cannot be obtained are left out.
func (e *Engine) Quote(ctx context.Context, rawPostalCode string, page Page) (Response, error) {
	postal := store.NormalizePostalCode(rawPostalCode)
	if !store.ValidPostalCode(postal) {
		return Response{}, &ServiceError{Kind: KindInvalidInput, Msg: "postal code must contain 8 digits"}
	}
	if page.Limit < 0 || page.Offset < 0 {
		return Response{}, &ServiceError{Kind: KindInvalidInput, Msg: "limit and offset must not be negative"}
	}

	addr, err := e.address.Resolve(ctx, postal)
	if err != nil {
		msg := "address service unavailable"
		if errors.Is(err, address.ErrNotFound) {
			msg = "postal code could not be resolved"
		}
		e.log.Warn("address resolution failed", zap.String("postal_code", postal), zap.Error(err))
		return Response{}, &ServiceError{Kind: KindUpstreamUnavailable, Msg: msg, Err: err}
	}

	candidates, err := e.catalog.FindByRegion(ctx, addr.Region)
	if err != nil {
		e.log.Error("store catalog unavailable", zap.String("region", addr.Region), zap.Error(err))
		return Response{}, &ServiceError{Kind: KindUpstreamUnavailable, Msg: "store catalog unavailable", Err: err}
	}

	results := e.resolveAll(ctx, candidates, postal)
	if err := ctx.Err(); err != nil {
		// Lookups cut short by the caller would look like skipped stores.
		return Response{}, &ServiceError{Kind: KindUpstreamUnavailable, Msg: "quotation cancelled or timed out", Err: err}
	}
	return buildResponse(results, page), nil
}

// resolveAll resolves every candidate concurrently. Each store writes only
// its own slot, so a failure or panic in one never touches another, and
// the output keeps candidate order.
func (e *Engine) resolveAll(ctx context.Context, candidates []store.Store, origin string) []StoreResult {
	slots := make([]*StoreResult, len(candidates))

	var g errgroup.Group
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i, s := range candidates {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					e.log.Error("store resolution panicked",
						zap.String("store_id", s.StoreID), zap.String("panic", fmt.Sprint(p)))
				}
			}()
			res, rerr := e.resolver.Resolve(ctx, s, origin)
			if rerr != nil {
				e.log.Warn("skipping store", zap.String("store_id", s.StoreID), zap.Error(rerr))
				return nil
			}
			slots[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	out := make([]StoreResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func buildResponse(all []StoreResult, page Page) Response {
	total := len(all)
	window := all
	limit, offset := total, 0
	if page != (Page{}) {
		offset = min(page.Offset, total)
		end := total
		if page.Limit > 0 {
			end = min(offset+page.Limit, total)
		}
		window = all[offset:end]
		limit = page.Limit
		if limit == 0 {
			limit = len(window)
		}
	}

	pins := make([]Pin, len(window))
	for i, r := range window {
		pins[i] = Pin{Position: r.Position, Title: r.Name}
	}
	return Response{Stores: window, Pins: pins, Limit: limit, Offset: offset, Total: total}
}
