// Package cep resolves Brazilian postal codes to street addresses.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
)

var (
	ErrInvalidCEP = errors.New("invalid cep")
	ErrNotFound   = errors.New("cep not found")
)

type Client struct {
	baseURL string
	http    *http.Client
	log     logger.ILogger
}

func New(baseURL string, log logger.ILogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

// viaCEPResponse mirrors the provider payload. "erro" comes back as either a
// bool or the string "true".
type viaCEPResponse struct {
	CEP         string          `json:"cep"`
	Logradouro  string          `json:"logradouro"`
	Complemento string          `json:"complemento"`
	Bairro      string          `json:"bairro"`
	Localidade  string          `json:"localidade"`
	UF          string          `json:"uf"`
	Erro        json.RawMessage `json:"erro"`
}

func (r viaCEPResponse) failed() bool {
	v := strings.Trim(string(r.Erro), `"`)
	return v == "true"
}

// Lookup returns the address for cep with Number left empty.
func (c *Client) Lookup(ctx context.Context, cep string) (*models.Address, error) {
	digits := validation.OnlyDigits(cep)
	if !validation.ValidCEP(digits) {
		return nil, ErrInvalidCEP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, digits), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("cep lookup failed", logger.String("cep", digits), logger.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrInvalidCEP
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cep provider returned %d", resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode cep response: %w", err)
	}
	if body.failed() {
		return nil, ErrNotFound
	}

	return &models.Address{
		CEP:          validation.FormatCEP(digits),
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
