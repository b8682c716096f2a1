package rate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storelocator/internal/delivery"
	"storelocator/internal/logger"
)

// Normalizer maps a carrier quote Result into delivery options.
type Normalizer interface {
	Normalize(fromPostal, toPostal string, res Result) []delivery.Option
}

// NewNormalizer returns the tier-matching normalizer for policy p.
func NewNormalizer(p delivery.Policy, l *zap.Logger) Normalizer {
	return &TierNormalizer{policy: p, log: logger.OrNop(l)}
}

// TierNormalizer keeps only quotes that match a known carrier tier. When the
// call failed, the payload was malformed or nothing usable remains, it
// answers with the policy default options so a parcel store always has
// something to offer.
type TierNormalizer struct {
	policy delivery.Policy
	log    *zap.Logger
}

func (n *TierNormalizer) Normalize(fromPostal, toPostal string, res Result) []delivery.Option {
	fields := []zap.Field{zap.String("from", fromPostal), zap.String("to", toPostal)}

	if res.Status != StatusOK {
		n.log.Warn("carrier quote degraded, using default options",
			append(fields, zap.Stringer("status", res.Status), zap.Error(res.Err))...)
		return n.policy.DefaultParcelOptions()
	}
	if len(res.Quotes) == 0 {
		n.log.Warn("no carrier quotes returned, using default options", fields...)
		return n.policy.DefaultParcelOptions()
	}

	out := make([]delivery.Option, 0, len(res.Quotes))
	for _, q := range res.Quotes {
		opt, recognized := n.option(q)
		if !recognized {
			n.log.Debug("dropping unrecognized carrier quote", append(fields, zap.String("name", q.Name))...)
			continue
		}
		out = append(out, opt)
	}
	if len(out) == 0 {
		n.log.Warn("no recognized carrier tiers in quotes, using default options", fields...)
		return n.policy.DefaultParcelOptions()
	}
	return out
}

// option builds the delivery option for q and reports whether q matched a tier.
func (n *TierNormalizer) option(q RawQuote) (delivery.Option, bool) {
	price, _ := toFloat(q.Price)
	days, _ := toFloat(q.DeliveryTime)

	opt := delivery.Option{
		LeadTime:    delivery.FormatLeadTime(int(math.Round(math.Max(days, 0)))),
		Price:       delivery.FormatPrice(price),
		Description: orDefault(q.Name, "Entrega padrão"),
	}

	name := strings.ToLower(q.Name)
	for _, t := range n.policy.Tiers() {
		if !strings.Contains(name, strings.ToLower(t.Label)) {
			continue
		}
		opt.Description = t.Description
		opt.ProductCode = t.Code
		opt.Company = n.policy.Carrier
		if q.Company != nil && strings.TrimSpace(q.Company.Name) != "" {
			opt.Company = q.Company.Name
		}
		return opt, true
	}
	return opt, false
}

// toFloat coerces loosely typed JSON values. Anything non-numeric is 0.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
