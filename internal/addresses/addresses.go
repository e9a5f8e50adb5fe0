// Package addresses manages the saved delivery addresses of signed-in users.
package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"agrilink/internal/checkout"
	"agrilink/internal/models"
)

var ErrAddressNotFound = errors.New("address not found")

type Store interface {
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	SaveAddresses(ctx context.Context, userID string, addresses []models.Address) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Address, error) {
	list, err := s.store.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if list == nil {
		list = []models.Address{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (models.Address, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Address{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Address{}, ErrAddressNotFound
}

// Add validates and stores a new address. The first address of a user is
// always the default; making a new address the default demotes the old one.
func (s *Service) Add(ctx context.Context, userID, label string, address models.ShippingAddress, isDefault bool) (models.Address, error) {
	if err := checkout.ValidateAddress(address); err != nil {
		return models.Address{}, err
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Address{}, err
	}

	created := models.Address{
		ID:              uuid.NewString(),
		Label:           strings.TrimSpace(label),
		ShippingAddress: address.Normalized(),
		IsDefault:       isDefault || len(list) == 0,
	}
	if created.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}
	list = append(list, created)

	if err := s.store.SaveAddresses(ctx, userID, list); err != nil {
		return models.Address{}, fmt.Errorf("save addresses: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id, label string, address models.ShippingAddress, isDefault bool) (models.Address, error) {
	if err := checkout.ValidateAddress(address); err != nil {
		return models.Address{}, err
	}
	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Address{}, err
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return models.Address{}, ErrAddressNotFound
	}
	if isDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}
	list[idx].Label = strings.TrimSpace(label)
	list[idx].ShippingAddress = address.Normalized()
	list[idx].IsDefault = list[idx].IsDefault || isDefault

	if err := s.store.SaveAddresses(ctx, userID, list); err != nil {
		return models.Address{}, fmt.Errorf("save addresses: %w", err)
	}
	return list[idx], nil
}

// Delete removes an address. When the default is removed the oldest
// remaining address becomes the default.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	list, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return ErrAddressNotFound
	}

	wasDefault := list[idx].IsDefault
	list = append(list[:idx], list[idx+1:]...)
	if wasDefault && len(list) > 0 {
		list[0].IsDefault = true
	}

	if err := s.store.SaveAddresses(ctx, userID, list); err != nil {
		return fmt.Errorf("save addresses: %w", err)
	}
	return nil
}

func indexOf(list []models.Address, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
