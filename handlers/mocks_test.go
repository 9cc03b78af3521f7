package handlers

import (
	"context"
	"encoding/json"

	"github.com/iteka-youth/site-backend/types"
	"github.com/stretchr/testify/mock"
)

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) Submit(ctx context.Context, clientKey string, sub types.ContactSubmission) error {
	args := m.Called(ctx, clientKey, sub)
	return args.Error(0)
}

type mockDonationService struct {
	mock.Mock
}

func (m *mockDonationService) CreateCheckoutSession(ctx context.Context, amount float64) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}

func (m *mockDonationService) CreatePaymentIntent(ctx context.Context, amount float64, donorName, donorEmail string) (string, error) {
	args := m.Called(ctx, amount, donorName, donorEmail)
	return args.String(0), args.Error(1)
}

type mockContentService struct {
	mock.Mock
}

func (m *mockContentService) GetCollection(ctx context.Context, name, category string) (json.RawMessage, error) {
	args := m.Called(ctx, name, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockContentService) GetBySlug(ctx context.Context, name, slug string) (json.RawMessage, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
