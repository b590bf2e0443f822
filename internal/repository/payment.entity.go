package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type CreditCardEntity struct {
	ID         int64  `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	ClientID   string `db:"client_id"   gorm:"column:client_id;not null;index"`
	CardNumber string `db:"card_number" gorm:"column:card_number;not null"`
	Month      string `db:"month"       gorm:"column:month;not null"`
	Year       string `db:"year"        gorm:"column:year;not null"`
	CVV        string `db:"cvv"         gorm:"column:cvv;not null"`
}

func (CreditCardEntity) TableName() string {
	return "credit_cards"
}

type BankAccountEntity struct {
	ID         int64  `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	ClientID   string `db:"client_id"   gorm:"column:client_id;not null;index"`
	AccountNum string `db:"account_num" gorm:"column:account_num;not null"`
	Branch     string `db:"branch"      gorm:"column:branch;not null"`
	BankNum    string `db:"bank_num"    gorm:"column:bank_num;not null"`
}

func (BankAccountEntity) TableName() string {
	return "bank_accounts"
}

func toCreditCardModel(e *CreditCardEntity) *model.CreditCard {
	if e == nil {
		return nil
	}
	return &model.CreditCard{
		ID:         e.ID,
		ClientID:   e.ClientID,
		CardNumber: e.CardNumber,
		Month:      e.Month,
		Year:       e.Year,
		CVV:        e.CVV,
	}
}

func toBankAccountModel(e *BankAccountEntity) *model.BankAccount {
	if e == nil {
		return nil
	}
	return &model.BankAccount{
		ID:         e.ID,
		ClientID:   e.ClientID,
		AccountNum: e.AccountNum,
		Branch:     e.Branch,
		BankNum:    e.BankNum,
	}
}
