package rate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"storelocator/internal/logger"
)

const (
	defaultMelhorEnvioURL = "https://www.melhorenvio.com.br/api/v2/me"
	unknownCarrier        = "Transportadora não identificada"
)

type MelhorEnvioOptions struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// MelhorEnvio quotes parcels through the Melhor Envio shipment calculator.
type MelhorEnvio struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	log     *zap.Logger
}

func NewMelhorEnvio(o MelhorEnvioOptions) *MelhorEnvio {
	if o.BaseURL == "" {
		o.BaseURL = defaultMelhorEnvioURL
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return &MelhorEnvio{
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		token:   o.Token,
		timeout: o.Timeout,
		http:    o.HTTPClient,
		log:     logger.OrNop(o.Logger).Named("melhorenvio"),
	}
}

type postalRef struct {
	PostalCode string `json:"postal_code"`
}

type calculateRequest struct {
	From     postalRef        `json:"from"`
	To       postalRef        `json:"to"`
	Products []productRequest `json:"products"`
	Options  optionsRequest   `json:"options"`
}

type productRequest struct {
	ID       string  `json:"id"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Length   int     `json:"length"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
}

type optionsRequest struct {
	Receipt        bool    `json:"receipt"`
	OwnHand        bool    `json:"own_hand"`
	InsuranceValue float64 `json:"insurance_value"`
}

func (m *MelhorEnvio) Quote(ctx context.Context, fromPostal, toPostal string) Result {
	if !validPostal(fromPostal) || !validPostal(toPostal) {
		return Unavailable(ErrInvalidInput)
	}

	// Standard small box; quotes are indicative only.
	payload := calculateRequest{
		From:     postalRef{PostalCode: fromPostal},
		To:       postalRef{PostalCode: toPostal},
		Products: []productRequest{{ID: "1", Width: 10, Height: 10, Length: 10, Weight: 0.3, Quantity: 1}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Unavailable(err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/shipment/calculate", bytes.NewReader(body))
	if err != nil {
		return Unavailable(err)
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return Unavailable(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Unavailable(ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusBadRequest {
			m.log.Warn("rejected quote request", zap.String("from", fromPostal), zap.String("to", toPostal), zap.ByteString("body", b))
		}
		return Unavailable(fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode))
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Result{Status: StatusMalformed, Err: err}
	}
	items, ok := raw.([]any)
	if !ok {
		return Result{Status: StatusMalformed, Err: fmt.Errorf("unexpected quote payload %T", raw)}
	}

	quotes := make([]RawQuote, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		// Services the carrier cannot offer for this route come back with an error and no price.
		if getString(obj, []string{"error"}) != "" {
			continue
		}
		q := RawQuote{
			Name:         getString(obj, []string{"name"}),
			Price:        getAny(obj, []string{"price"}),
			DeliveryTime: getAny(obj, []string{"delivery_time"}),
		}
		if c, ok := obj["company"].(map[string]any); ok {
			q.Company = &Company{Name: orDefault(getString(c, []string{"name"}), unknownCarrier)}
		}
		quotes = append(quotes, q)
	}
	return Result{Status: StatusOK, Quotes: quotes}
}

// getString returns the first non-empty string from the candidate keys.
// Supports dot-path navigation for nested maps.
func getString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// getAny returns the first non-nil value from the candidate keys.
func getAny(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			return v
		}
	}
	return nil
}

func getPath(m map[string]any, path string) any {
	var cur any = m
	for _, p := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := mm[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func orDefault(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}
