package rate

import (
	"context"
	"errors"
	"strings"

	"storelocator/internal/delivery"
)

// Status tags how a carrier quote call ended.
type Status int

const (
	StatusOK Status = iota
	StatusMalformed
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

var (
	ErrInvalidInput = errors.New("invalid postal code")
	ErrUnauthorized = errors.New("carrier authentication failed")
	ErrUnavailable  = errors.New("carrier quote service unavailable")
)

// Company is the carrier behind a quote.
type Company struct {
	Name string
}

// RawQuote is a carrier quote as received. Price and DeliveryTime are kept
// loose (number, numeric string, nil...) and coerced by the Normalizer.
type RawQuote struct {
	Name         string
	Price        any
	DeliveryTime any
	Company      *Company
}

// Result is the outcome of one quote call. Quotes is only meaningful when Status is StatusOK.
type Result struct {
	Status Status
	Quotes []RawQuote
	Err    error
}

func Unavailable(err error) Result { return Result{Status: StatusUnavailable, Err: err} }

// Quoter fetches shipping quotes between two postal codes. Implementations
// never return a Go error; failures are reported through Result.Status.
type Quoter interface {
	Quote(ctx context.Context, fromPostal, toPostal string) Result
}

// Dummy quotes both carrier tiers at their policy default price and lead time.
// Handy offline and in local development.
type Dummy struct {
	policy delivery.Policy
}

func NewDummy(p delivery.Policy) *Dummy { return &Dummy{policy: p} }

func (d *Dummy) Quote(_ context.Context, fromPostal, toPostal string) Result {
	if !validPostal(fromPostal) || !validPostal(toPostal) {
		return Unavailable(ErrInvalidInput)
	}
	quotes := make([]RawQuote, 0, 2)
	for _, t := range d.policy.Tiers() {
		quotes = append(quotes, RawQuote{
			Name:         t.Label,
			Price:        t.DefaultPrice,
			DeliveryTime: t.DefaultDays,
			Company:      &Company{Name: d.policy.Carrier},
		})
	}
	return Result{Status: StatusOK, Quotes: quotes}
}

// NewByName returns a Quoter by provider name. Unknown names fall back to Dummy.
func NewByName(name string, p delivery.Policy, me MelhorEnvioOptions) Quoter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "melhorenvio", "melhor_envio":
		return NewMelhorEnvio(me)
	default:
		return NewDummy(p)
	}
}

func validPostal(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
