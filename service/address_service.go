package service

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
)

// AddressLookup resolves a CEP to a street address.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*models.Address, error)
}

type AddressService interface {
	LookupCEP(ctx context.Context, cep string) (*models.Address, error)
}

type addressService struct {
	d   *deps
	log logger.ILogger
}

func NewAddressService(d *deps, log logger.ILogger) AddressService {
	return &addressService{d: d, log: log}
}

func (s *addressService) LookupCEP(ctx context.Context, cep string) (*models.Address, error) {
	if !validation.ValidCEP(cep) {
		return nil, invalid("cep", "CEP inválido")
	}
	if s.d.cep == nil {
		return nil, ErrLookupDisabled
	}
	return s.d.cep.Lookup(ctx, cep)
}
