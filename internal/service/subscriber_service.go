package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/motivationmailer/mailer/internal/model"
	"github.com/motivationmailer/mailer/internal/repository"
)

// Subscriber service errors
var (
	ErrInvalidAddress = errors.New("invalid email address")
	ErrNoAddresses    = errors.New("no email addresses given")
)

// SubscriberService handles subscriber management
type SubscriberService struct {
	uow      *repository.UnitOfWork
	validate *validator.Validate
	log      *logger.Logger
}

// NewSubscriberService creates a new SubscriberService
func NewSubscriberService(uow *repository.UnitOfWork, log *logger.Logger) *SubscriberService {
	return &SubscriberService{
		uow:      uow,
		validate: validator.New(),
		log:      log.WithComponent("subscriber_service"),
	}
}

// Add stores every new address in one transaction. Addresses already subscribed
// are reported in the result's Skipped list. Nothing is written if any address is malformed.
func (s *SubscriberService) Add(ctx context.Context, addresses []string) (repository.BatchResult, error) {
	if len(addresses) == 0 {
		return repository.BatchResult{}, ErrNoAddresses
	}

	var invalid []string
	for _, address := range addresses {
		if err := s.validate.Var(address, "required,email"); err != nil {
			invalid = append(invalid, address)
		}
	}
	if len(invalid) > 0 {
		return repository.BatchResult{}, fmt.Errorf("%w: %s", ErrInvalidAddress, strings.Join(invalid, ", "))
	}

	var res repository.BatchResult
	err := s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		res, err = p.Subscribers().AddBatch(ctx, addresses)
		return err
	})
	if err != nil {
		return repository.BatchResult{}, fmt.Errorf("failed to add subscribers: %w", err)
	}

	s.log.Debug().
		Int("added", len(res.Applied)).
		Int("skipped", len(res.Skipped)).
		Msg("subscribers added")
	return res, nil
}

// Remove deletes every stored address in one transaction. Unknown addresses
// are reported in the result's Skipped list.
func (s *SubscriberService) Remove(ctx context.Context, addresses []string) (repository.BatchResult, error) {
	if len(addresses) == 0 {
		return repository.BatchResult{}, ErrNoAddresses
	}

	var res repository.BatchResult
	err := s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		res, err = p.Subscribers().RemoveBatch(ctx, addresses)
		return err
	})
	if err != nil {
		return repository.BatchResult{}, fmt.Errorf("failed to remove subscribers: %w", err)
	}

	s.log.Debug().
		Int("removed", len(res.Applied)).
		Int("skipped", len(res.Skipped)).
		Msg("subscribers removed")
	return res, nil
}

// List returns all subscribers
func (s *SubscriberService) List(ctx context.Context) ([]model.Subscriber, error) {
	var subscribers []model.Subscriber
	err := s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		subscribers, err = p.Subscribers().ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

// Exists reports whether address is subscribed
func (s *SubscriberService) Exists(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		exists, err = p.Subscribers().Exists(ctx, address)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check subscriber: %w", err)
	}
	return exists, nil
}
