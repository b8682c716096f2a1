package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"storelocator/internal/address"
	"storelocator/internal/db"
	"storelocator/internal/delivery"
	"storelocator/internal/distance"
	"storelocator/internal/quotation"
	"storelocator/internal/rate"
	"storelocator/internal/store"
)

func TestDeliveryOptionsIntegration(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
		return
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	defer pool.Close()
	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("schema: %v", err)
	}
	// Uses a region no real data lives in so FindByRegion sees only these rows.
	_, _ = pool.Exec(ctx, `DELETE FROM stores WHERE store_id LIKE 'ITEST_SRV_%'`)
	defer pool.Exec(context.Background(), `DELETE FROM stores WHERE store_id LIKE 'ITEST_SRV_%'`)

	viacep := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cep":"99999-000","uf":"zz","localidade":"Teste"}`)
	}))
	defer viacep.Close()
	meters := map[string]int{"99999001": 12000, "99999002": 300000}
	maps := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, ok := meters[r.URL.Query().Get("destinations")]
		if !ok {
			fmt.Fprint(w, `{"status":"OK","rows":[{"elements":[{"status":"NOT_FOUND"}]}]}`)
			return
		}
		fmt.Fprintf(w, `{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":%d,"text":"x"},"duration":{"value":60,"text":"1 min"}}]}]}`, m)
	}))
	defer maps.Close()

	repo := store.NewRepositoryPgx(pool)
	policy := delivery.DefaultPolicy()
	resolver := quotation.NewResolver(
		distance.NewGoogleMatrix(maps.URL, "k", time.Second, maps.Client()),
		rate.NewDummy(policy), policy, nil)
	engine := quotation.NewEngine(address.NewViaCEP(viacep.URL, time.Second, viacep.Client()), repo, resolver, 4, nil)
	h := New(engine, repo, nil)

	for _, s := range []store.Store{
		sampleStore("ITEST_SRV_1", "ZZ", "99999001", -10, -40),
		sampleStore("ITEST_SRV_2", "ZZ", "99999002", -11, -41),
		sampleStore("ITEST_SRV_3", "ZZ", "99999003", -12, -42),
	} {
		if s.StoreID == "ITEST_SRV_2" {
			s.Type = store.TypeLoja
		}
		if rr := do(t, h, http.MethodPost, "/stores", s); rr.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", s.StoreID, rr.Code, rr.Body.String())
		}
	}

	rr := do(t, h, http.MethodGet, "/delivery-options?postalCode=99999-000", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
	}
	var res quotation.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	// ITEST_SRV_3 has no route and is left out.
	if res.Total != 2 || len(res.Stores) != 2 || len(res.Pins) != 2 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if got := res.Stores[0].Options; len(got) != 1 || got[0].Description != "Motoboy" {
		t.Fatalf("expected courier option for ITEST_SRV_1, got %+v", got)
	}
	if got := res.Stores[1].Options; len(got) != 2 || !strings.HasPrefix(got[0].Description, "Sedex") {
		t.Fatalf("expected carrier options for ITEST_SRV_2, got %+v", got)
	}
}
