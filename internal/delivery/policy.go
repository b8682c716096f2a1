package delivery

// Tier is a named carrier shipping product.
type Tier struct {
	Label        string // matched case-insensitively against carrier quote names
	Code         string
	Description  string
	DefaultPrice float64
	DefaultDays  int
}

type Policy struct {
	LocalRadiusKm    float64
	LocalPrice       float64
	LocalDescription string

	Carrier   string
	Expedited Tier
	Economy   Tier
}

// DefaultPolicy returns the courier/parcel rules used in production.
func DefaultPolicy() Policy {
	return Policy{
		LocalRadiusKm:    50,
		LocalPrice:       15.00,
		LocalDescription: "Motoboy",
		Carrier:          "Correios",
		Expedited: Tier{
			Label:        "Sedex",
			Code:         "04014",
			Description:  "Sedex a encomenda expressa dos Correios",
			DefaultPrice: 27.0,
			DefaultDays:  2,
		},
		Economy: Tier{
			Label:        "PAC",
			Code:         "04510",
			Description:  "PAC a encomenda econômica dos Correios",
			DefaultPrice: 25.5,
			DefaultDays:  6,
		},
	}
}

// LocalRadiusMeters is the inclusive courier limit in meters.
func (p Policy) LocalRadiusMeters() float64 {
	return p.LocalRadiusKm * 1000
}

// Tiers returns the recognized carrier tiers, expedited first.
func (p Policy) Tiers() []Tier {
	return []Tier{p.Expedited, p.Economy}
}

// LocalOption is the single courier option for a store with the given lead time.
func (p Policy) LocalOption(leadDays int) Option {
	return Option{
		LeadTime:    FormatLeadTime(leadDays),
		Price:       FormatPrice(p.LocalPrice),
		Description: p.LocalDescription,
	}
}

// DefaultParcelOptions are offered when live carrier quoting is unavailable.
func (p Policy) DefaultParcelOptions() []Option {
	out := make([]Option, 0, 2)
	for _, t := range p.Tiers() {
		out = append(out, Option{
			LeadTime:    FormatLeadTime(t.DefaultDays),
			Price:       FormatPrice(t.DefaultPrice),
			Description: t.Description,
			ProductCode: t.Code,
			Company:     p.Carrier,
		})
	}
	return out
}
