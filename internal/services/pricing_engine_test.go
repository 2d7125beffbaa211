package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"supplier-sync-service/internal/models"
)

// MockPricingRepository is a mock implementation of PricingRepositoryInterface
type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) ListActive(ctx context.Context) ([]models.PricingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

func (m *MockPricingRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

func (m *MockPricingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingRule), args.Error(1)
}

func (m *MockPricingRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRepository) Update(ctx context.Context, rule *models.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestResolveMarkupFirstMatchWins(t *testing.T) {
	repo := new(MockPricingRepository)
	// Rules arrive pre-sorted by priority from the repository.
	repo.On("ListActive", mock.Anything).Return([]models.PricingRule{
		{Category: strPtr("Electronics"), MarkupPercentage: 30, Priority: 10, IsActive: true},
		{MinPrice: floatPtr(0), MaxPrice: floatPtr(100), MarkupPercentage: 80, Priority: 20, IsActive: true},
		{MarkupPercentage: 10, Priority: 30, IsActive: true},
	}, nil)

	engine := NewPricingEngine(repo, 50, zap.NewNop())

	// Electronics matches the first rule even though the price-band rule
	// also applies.
	assert.Equal(t, 30.0, engine.ResolveMarkup(context.Background(), "Electronics", 25))
	// Non-electronics under 100 falls to the price-band rule.
	assert.Equal(t, 80.0, engine.ResolveMarkup(context.Background(), "Toys", 25))
	// Expensive non-electronics lands on the catch-all.
	assert.Equal(t, 10.0, engine.ResolveMarkup(context.Background(), "Toys", 500))
}

func TestResolveMarkupDefaultWhenNoMatch(t *testing.T) {
	repo := new(MockPricingRepository)
	repo.On("ListActive", mock.Anything).Return([]models.PricingRule{
		{Category: strPtr("Books"), MarkupPercentage: 25, Priority: 10, IsActive: true},
	}, nil)

	engine := NewPricingEngine(repo, 50, zap.NewNop())
	assert.Equal(t, 50.0, engine.ResolveMarkup(context.Background(), "Garden", 12))
}

func TestResolveMarkupDefaultOnRepositoryError(t *testing.T) {
	repo := new(MockPricingRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("connection reset"))

	engine := NewPricingEngine(repo, 50, zap.NewNop())
	assert.Equal(t, 50.0, engine.ResolveMarkup(context.Background(), "Garden", 12))
}

func TestPrice(t *testing.T) {
	repo := new(MockPricingRepository)
	repo.On("ListActive", mock.Anything).Return([]models.PricingRule{}, nil)

	engine := NewPricingEngine(repo, 50, zap.NewNop())
	price, markup := engine.Price(context.Background(), "Garden", 19.99)
	assert.Equal(t, 50.0, markup)
	assert.Equal(t, 29.99, price)
}

func TestPricingRuleMatches(t *testing.T) {
	rule := models.PricingRule{
		Category: strPtr("Electronics"),
		MinPrice: floatPtr(10),
		MaxPrice: floatPtr(100),
	}

	assert.True(t, rule.Matches("Electronics", 50))
	assert.True(t, rule.Matches("Electronics", 10))  // inclusive bounds
	assert.True(t, rule.Matches("Electronics", 100))
	assert.False(t, rule.Matches("Toys", 50))
	assert.False(t, rule.Matches("Electronics", 9.99))
	assert.False(t, rule.Matches("Electronics", 100.01))

	open := models.PricingRule{}
	assert.True(t, open.Matches("Anything", 1))
}
