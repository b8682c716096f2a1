package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("postal code not found")
	ErrUnavailable = errors.New("address service unavailable")
)

// Address is the region data behind a postal code.
type Address struct {
	PostalCode string
	Region     string // two-letter state code, uppercase
	City       string
	Street     string
	District   string
}

// Resolver looks up an 8-digit postal code.
type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (Address, error)
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

type ViaCEP struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewViaCEP(baseURL string, timeout time.Duration, httpClient *http.Client) *ViaCEP {
	if baseURL == "" {
		baseURL = "https://viacep.com.br/ws"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ViaCEP{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, http: httpClient}
}

func (c *ViaCEP) Resolve(ctx context.Context, postalCode string) (Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes and 200 {"erro": true} for unknown ones.
	if resp.StatusCode == http.StatusBadRequest {
		return Address{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Address{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(b))
	}

	var raw viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if isTrue(raw.Erro) {
		return Address{}, ErrNotFound
	}
	region := strings.ToUpper(strings.TrimSpace(raw.UF))
	if region == "" {
		return Address{}, fmt.Errorf("%w: response without uf", ErrUnavailable)
	}
	return Address{
		PostalCode: postalCode,
		Region:     region,
		City:       raw.Localidade,
		Street:     raw.Logradouro,
		District:   raw.Bairro,
	}, nil
}

// isTrue accepts both true and "true"; ViaCEP has returned each over time.
func isTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		return false
	}
}
