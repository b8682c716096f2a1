package rate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storelocator/internal/delivery"
)

func newTestNormalizer() Normalizer {
	return NewNormalizer(delivery.DefaultPolicy(), nil)
}

func TestNormalize_SedexAndPAC(t *testing.T) {
	res := Result{Status: StatusOK, Quotes: []RawQuote{
		{Name: "SEDEX", Price: 27.0, DeliveryTime: 2.0, Company: &Company{Name: "Correios"}},
		{Name: "PAC", Price: "25.5", DeliveryTime: json.Number("6")},
	}}
	opts := newTestNormalizer().Normalize("01311000", "20040002", res)
	require.Len(t, opts, 2)
	assert.Equal(t, delivery.Option{
		LeadTime:    "2 dias úteis",
		Price:       "R$ 27.00",
		Description: "Sedex a encomenda expressa dos Correios",
		ProductCode: "04014",
		Company:     "Correios",
	}, opts[0])
	assert.Equal(t, delivery.Option{
		LeadTime:    "6 dias úteis",
		Price:       "R$ 25.50",
		Description: "PAC a encomenda econômica dos Correios",
		ProductCode: "04510",
		Company:     "Correios",
	}, opts[1])
}

func TestNormalize_CarrierNameFromCompany(t *testing.T) {
	res := Result{Status: StatusOK, Quotes: []RawQuote{
		{Name: "Sedex 10", Price: 40, DeliveryTime: 1, Company: &Company{Name: "Correios Express"}},
	}}
	opts := newTestNormalizer().Normalize("01311000", "20040002", res)
	require.Len(t, opts, 1)
	assert.Equal(t, "Correios Express", opts[0].Company)
	assert.Equal(t, "1 dia útil", opts[0].LeadTime)
}

func TestNormalize_NonNumericCoercedToZero(t *testing.T) {
	res := Result{Status: StatusOK, Quotes: []RawQuote{
		{Name: "PAC", Price: "free?", DeliveryTime: nil},
	}}
	opts := newTestNormalizer().Normalize("01311000", "20040002", res)
	require.Len(t, opts, 1)
	assert.Equal(t, "R$ 0.00", opts[0].Price)
	assert.Equal(t, "0 dias úteis", opts[0].LeadTime)
}

func TestNormalize_LeadTimeNeverNegative(t *testing.T) {
	res := Result{Status: StatusOK, Quotes: []RawQuote{
		{Name: "Sedex", Price: 27.0, DeliveryTime: -1},
		{Name: "PAC", Price: 25.5, DeliveryTime: "-0.4"},
		{Name: "PAC Mini", Price: 20.0, DeliveryTime: 1.4},
	}}
	opts := newTestNormalizer().Normalize("01311000", "20040002", res)
	require.Len(t, opts, 3)
	assert.Equal(t, "0 dias úteis", opts[0].LeadTime)
	assert.Equal(t, "0 dias úteis", opts[1].LeadTime)
	assert.Equal(t, "1 dia útil", opts[2].LeadTime)
}

func TestNormalize_DropsUnknownTiers(t *testing.T) {
	res := Result{Status: StatusOK, Quotes: []RawQuote{
		{Name: "Jadlog Expresso", Price: 18.0, DeliveryTime: 3},
		{Name: "Sedex", Price: 30.0, DeliveryTime: 2},
	}}
	opts := newTestNormalizer().Normalize("01311000", "20040002", res)
	require.Len(t, opts, 1)
	assert.Equal(t, "04014", opts[0].ProductCode)
}

func TestNormalize_FallbackTotality(t *testing.T) {
	defaults := delivery.DefaultPolicy().DefaultParcelOptions()
	cases := map[string]Result{
		"unavailable":      Unavailable(errors.New("timeout")),
		"unauthorized":     Unavailable(ErrUnauthorized),
		"malformed":        {Status: StatusMalformed},
		"empty":            {Status: StatusOK},
		"empty slice":      {Status: StatusOK, Quotes: []RawQuote{}},
		"only unknown":     {Status: StatusOK, Quotes: []RawQuote{{Name: "Loggi", Price: 9}}},
		"unnamed quote":    {Status: StatusOK, Quotes: []RawQuote{{Price: 9}}},
		"malformed w data": {Status: StatusMalformed, Quotes: []RawQuote{{Name: "Sedex", Price: 1}}},
	}
	n := newTestNormalizer()
	for name, res := range cases {
		t.Run(name, func(t *testing.T) {
			opts := n.Normalize("01311000", "20040002", res)
			assert.Equal(t, defaults, opts)
		})
	}
}

func TestNormalize_DummyRoundTrip(t *testing.T) {
	p := delivery.DefaultPolicy()
	res := NewDummy(p).Quote(context.Background(), "01311000", "20040002")
	assert.Equal(t, p.DefaultParcelOptions(), NewNormalizer(p, nil).Normalize("01311000", "20040002", res))
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{27.5, 27.5, true},
		{3, 3, true},
		{int64(4), 4, true},
		{json.Number("1.25"), 1.25, true},
		{" 12.50 ", 12.5, true},
		{"abc", 0, false},
		{nil, 0, false},
		{map[string]any{}, 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := toFloat(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}
