package repository

import (
	"context"
	"errors"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment instrument not found")

type PaymentRepository struct {
	*pg.DB
}

func NewPaymentRepository(db *pg.DB) *PaymentRepository {
	return &PaymentRepository{
		db,
	}
}

// UpsertCreditCard replaces a client's card on file: one card per client.
func (r *PaymentRepository) UpsertCreditCard(ctx context.Context, c *model.CreditCard) (*model.CreditCard, error) {
	var existing CreditCardEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("client_id = ?", c.ClientID).
		First(&existing).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		values := map[string]interface{}{
			"card_number": c.CardNumber,
			"month":       c.Month,
			"year":        c.Year,
			"cvv":         c.CVV,
		}
		if err := r.Write(ctx).WithContext(ctx).
			Model(&CreditCardEntity{}).
			Where("id = ?", existing.ID).
			Updates(values).Error; err != nil {
			return nil, err
		}
		existing.CardNumber = c.CardNumber
		existing.Month = c.Month
		existing.Year = c.Year
		existing.CVV = c.CVV
		return toCreditCardModel(&existing), nil
	}

	entity := &CreditCardEntity{
		ClientID:   c.ClientID,
		CardNumber: c.CardNumber,
		Month:      c.Month,
		Year:       c.Year,
		CVV:        c.CVV,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCreditCardModel(entity), nil
}

func (r *PaymentRepository) GetCreditCard(ctx context.Context, clientID string) (*model.CreditCard, error) {
	var entity CreditCardEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toCreditCardModel(&entity), nil
}

// UpsertBankAccount replaces a client's bank account on file.
func (r *PaymentRepository) UpsertBankAccount(ctx context.Context, b *model.BankAccount) (*model.BankAccount, error) {
	var existing BankAccountEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("client_id = ?", b.ClientID).
		First(&existing).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		values := map[string]interface{}{
			"account_num": b.AccountNum,
			"branch":      b.Branch,
			"bank_num":    b.BankNum,
		}
		if err := r.Write(ctx).WithContext(ctx).
			Model(&BankAccountEntity{}).
			Where("id = ?", existing.ID).
			Updates(values).Error; err != nil {
			return nil, err
		}
		existing.AccountNum = b.AccountNum
		existing.Branch = b.Branch
		existing.BankNum = b.BankNum
		return toBankAccountModel(&existing), nil
	}

	entity := &BankAccountEntity{
		ClientID:   b.ClientID,
		AccountNum: b.AccountNum,
		Branch:     b.Branch,
		BankNum:    b.BankNum,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toBankAccountModel(entity), nil
}

func (r *PaymentRepository) GetBankAccount(ctx context.Context, clientID string) (*model.BankAccount, error) {
	var entity BankAccountEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return toBankAccountModel(&entity), nil
}

func (r *PaymentRepository) DeleteCreditCard(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&CreditCardEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) DeleteBankAccount(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&BankAccountEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
