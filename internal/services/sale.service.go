package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gateway "github.com/yakirz/sales-gateway/internal/gateways"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/logger"
	"github.com/yakirz/sales-gateway/pkg/prom"
)

var ErrPaymentDeclined = errors.New("payment instrument declined")

type SaleRepository interface {
	CreateSale(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error)
	Update(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	StatusReport(ctx context.Context) ([]*model.PendingSale, error)
	MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error)
	MonthlySummary(ctx context.Context, userEmail string, monthStart time.Time) (*model.MonthlySummary, error)
}

type PaymentVerifier interface {
	Verify(ctx context.Context, req *gateway.VerifyRequest) (*gateway.VerifyResponse, error)
}

// SaleService is the write path for sales: it verifies the payment
// instrument when one is attached, then lands the whole cart atomically.
type SaleService struct {
	sales    SaleRepository
	verifier PaymentVerifier
}

func NewSaleService(sales SaleRepository, verifier PaymentVerifier) *SaleService {
	return &SaleService{
		sales:    sales,
		verifier: verifier,
	}
}

// Create lands a sale: one transaction row per cart line, all of them or
// none of them.
func (s *SaleService) Create(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if s.verifier != nil && (p.Payment.CreditCard != nil || p.Payment.BankAccount != nil) {
		req := &gateway.VerifyRequest{
			ClientID:    p.Client.ClientID,
			CreditCard:  p.Payment.CreditCard,
			BankAccount: p.Payment.BankAccount,
		}
		if _, err := s.verifier.Verify(ctx, req); err != nil {
			if errors.Is(err, gateway.ErrPaymentDeclined) {
				prom.IncCounter(prom.SystemSales, prom.MetricSalesFailed)
				return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
			}
			// verifier outage must not block sales, the admin chases
			// the payment through the status report
			logger.Warn("payment verification unavailable", "client_id", p.Client.ClientID, "error", err)
		}
	}

	created, err := s.sales.CreateSale(ctx, p)
	if err != nil {
		prom.IncCounter(prom.SystemSales, prom.MetricSalesFailed)
		return nil, err
	}

	prom.IncCounter(prom.SystemSales, prom.MetricSalesCreated)
	prom.AddSaleCartSize(float64(len(created)))

	logger.Info("sale created",
		"user_email", p.UserEmail,
		"client_id", p.Client.ClientID,
		"lines", len(created))
	return created, nil
}

func (s *SaleService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *SaleService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	return s.sales.List(ctx, f)
}

// Update patches a transaction, typically flipping its status after the
// carrier answers.
func (s *SaleService) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	return s.sales.Update(ctx, id, values)
}

func (s *SaleService) Delete(ctx context.Context, id int64) error {
	return s.sales.Delete(ctx, id)
}

// StatusReport lists every sale still waiting on the carrier.
func (s *SaleService) StatusReport(ctx context.Context) ([]*model.PendingSale, error) {
	return s.sales.StatusReport(ctx)
}

// MySales is a salesperson's own history.
func (s *SaleService) MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error) {
	return s.sales.MySales(ctx, userEmail)
}

// MonthlySummary counts the user's sales by status for the month holding
// the given date.
func (s *SaleService) MonthlySummary(ctx context.Context, userEmail string, anyDay time.Time) (*model.MonthlySummary, error) {
	monthStart := time.Date(anyDay.Year(), anyDay.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.sales.MonthlySummary(ctx, userEmail, monthStart)
}
