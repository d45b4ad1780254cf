// Package mock provides function-field mock implementations of the domain
// service interfaces for tests.
package mock

import (
	"context"

	"github.com/connectpalestine/conecta"
)

// Compile-time interface check
var _ conecta.SubscriberService = (*SubscriberService)(nil)

// SubscriberService is a mock implementation of conecta.SubscriberService.
type SubscriberService struct {
	RegisterSubscriberFn func(ctx context.Context, reg conecta.Registration) (*conecta.Subscriber, conecta.RegisterOutcome, error)
	FindSubscriberByIDFn func(ctx context.Context, id int64) (*conecta.Subscriber, error)
	FindSubscribersFn    func(ctx context.Context) ([]*conecta.Subscriber, error)
	ListEmailsFn         func(ctx context.Context) ([]string, error)
	UpdateSubscriberFn   func(ctx context.Context, id int64, upd conecta.SubscriberUpdate) (*conecta.Subscriber, error)
	DeleteSubscriberFn   func(ctx context.Context, id int64) error
}

func (s *SubscriberService) RegisterSubscriber(ctx context.Context, reg conecta.Registration) (*conecta.Subscriber, conecta.RegisterOutcome, error) {
	if s.RegisterSubscriberFn != nil {
		return s.RegisterSubscriberFn(ctx, reg)
	}
	sub := &conecta.Subscriber{
		ID:          1,
		Email:       reg.Email,
		Name:        reg.Name,
		PhoneNumber: reg.PhoneNumber,
		Messages:    reg.Messages,
	}
	return sub, conecta.OutcomeCreated, nil
}

func (s *SubscriberService) FindSubscriberByID(ctx context.Context, id int64) (*conecta.Subscriber, error) {
	if s.FindSubscriberByIDFn != nil {
		return s.FindSubscriberByIDFn(ctx, id)
	}
	return nil, conecta.NotFound("Subscriber not found")
}

func (s *SubscriberService) FindSubscribers(ctx context.Context) ([]*conecta.Subscriber, error) {
	if s.FindSubscribersFn != nil {
		return s.FindSubscribersFn(ctx)
	}
	return []*conecta.Subscriber{}, nil
}

func (s *SubscriberService) ListEmails(ctx context.Context) ([]string, error) {
	if s.ListEmailsFn != nil {
		return s.ListEmailsFn(ctx)
	}
	return []string{}, nil
}

func (s *SubscriberService) UpdateSubscriber(ctx context.Context, id int64, upd conecta.SubscriberUpdate) (*conecta.Subscriber, error) {
	if s.UpdateSubscriberFn != nil {
		return s.UpdateSubscriberFn(ctx, id, upd)
	}
	return nil, conecta.NotFound("Subscriber not found")
}

func (s *SubscriberService) DeleteSubscriber(ctx context.Context, id int64) error {
	if s.DeleteSubscriberFn != nil {
		return s.DeleteSubscriberFn(ctx, id)
	}
	return nil
}
