package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gateway "github.com/yakirz/sales-gateway/internal/gateways"
	"github.com/yakirz/sales-gateway/internal/model"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockSaleRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	args := m.Called(ctx, id, values)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) StatusReport(ctx context.Context) ([]*model.PendingSale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingSale), args.Error(1)
}

func (m *MockSaleRepository) MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) MonthlySummary(ctx context.Context, userEmail string, monthStart time.Time) (*model.MonthlySummary, error) {
	args := m.Called(ctx, userEmail, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MonthlySummary), args.Error(1)
}

type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) Verify(ctx context.Context, req *gateway.VerifyRequest) (*gateway.VerifyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.VerifyResponse), args.Error(1)
}

func validSaleRequest() model.SaleCreateRequest {
	return model.SaleCreateRequest{
		UserEmail: "seller@example.com",
		Client: model.ClientCreateRequest{
			ClientID:  "204511378",
			FirstName: "dana",
			LastName:  "cohen",
		},
		Cart: model.Cart{
			1: {{SimNum: "sim-1", PhoneNum: "0521000001"}},
		},
	}
}

func TestSaleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid sale without payment skips the verifier", func(t *testing.T) {
		repo := new(MockSaleRepository)
		verifier := new(MockPaymentVerifier)
		service := NewSaleService(repo, verifier)

		p := validSaleRequest()
		repo.On("CreateSale", ctx, p).Return([]*model.Transaction{{ID: 1}}, nil)

		created, err := service.Create(ctx, p)
		require.NoError(t, err)
		assert.Len(t, created, 1)

		verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("empty cart is rejected before the repository", func(t *testing.T) {
		repo := new(MockSaleRepository)
		service := NewSaleService(repo, nil)

		p := validSaleRequest()
		p.Cart = model.Cart{}

		_, err := service.Create(ctx, p)
		require.Error(t, err)

		repo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})

	t.Run("declined payment blocks the sale", func(t *testing.T) {
		repo := new(MockSaleRepository)
		verifier := new(MockPaymentVerifier)
		service := NewSaleService(repo, verifier)

		p := validSaleRequest()
		p.Payment = model.PaymentRef{
			CreditCard: &model.CreditCard{CardNumber: "4580000000000000", Month: "01", Year: "2027", CVV: "000"},
		}

		verifier.On("Verify", ctx, mock.AnythingOfType("*gateway.VerifyRequest")).
			Return(nil, gateway.ErrPaymentDeclined)

		_, err := service.Create(ctx, p)
		assert.ErrorIs(t, err, ErrPaymentDeclined)

		repo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
		verifier.AssertExpectations(t)
	})

	t.Run("verifier outage does not block the sale", func(t *testing.T) {
		repo := new(MockSaleRepository)
		verifier := new(MockPaymentVerifier)
		service := NewSaleService(repo, verifier)

		p := validSaleRequest()
		p.Payment = model.PaymentRef{
			BankAccount: &model.BankAccount{AccountNum: "123456", Branch: "001", BankNum: "10"},
		}

		verifier.On("Verify", ctx, mock.AnythingOfType("*gateway.VerifyRequest")).
			Return(nil, assert.AnError)
		repo.On("CreateSale", ctx, p).Return([]*model.Transaction{{ID: 1}}, nil)

		created, err := service.Create(ctx, p)
		require.NoError(t, err)
		assert.Len(t, created, 1)

		repo.AssertExpectations(t)
	})
}

func TestSaleService_MonthlySummary_NormalizesToMonthStart(t *testing.T) {
	repo := new(MockSaleRepository)
	service := NewSaleService(repo, nil)
	ctx := context.Background()

	midMonth := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	repo.On("MonthlySummary", ctx, "seller@example.com", monthStart).
		Return(&model.MonthlySummary{Success: 2, Fail: 1, Waiting: 3}, nil)

	summary, err := service.MonthlySummary(ctx, "seller@example.com", midMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Success)

	repo.AssertExpectations(t)
}
