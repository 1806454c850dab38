package cep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/pkg/logger"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/01001000/json/":
			_, _ = w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","complemento":"lado ímpar","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/99999999/json/":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		case "/88888888/json/":
			_, _ = w.Write([]byte(`{"erro": true}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	c := New(newServer(t).URL+"/", logger.NewNop())

	addr, err := c.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "01001-000", addr.CEP)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Empty(t, addr.Number)
}

func TestLookupErrors(t *testing.T) {
	c := New(newServer(t).URL, logger.NewNop())
	ctx := context.Background()

	_, err := c.Lookup(ctx, "123")
	assert.ErrorIs(t, err, ErrInvalidCEP)

	_, err = c.Lookup(ctx, "99999-999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(ctx, "88888888")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(ctx, "12345678")
	assert.Error(t, err)
}
