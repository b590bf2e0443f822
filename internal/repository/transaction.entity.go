package repository

import (
	"time"

	"github.com/yakirz/sales-gateway/internal/model"
)

type TransactionEntity struct {
	ID            int64      `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	UserEmail     string     `db:"user_email"      gorm:"column:user_email;not null;index"`
	TrackID       int64      `db:"track_id"        gorm:"column:track_id;not null"`
	ClientID      string     `db:"client_id"       gorm:"column:client_id;not null;index"`
	CreditCardID  *int64     `db:"credit_card_id"  gorm:"column:credit_card_id"`
	BankAccountID *int64     `db:"bank_account_id" gorm:"column:bank_account_id"`
	DateTime      time.Time  `db:"date_time"       gorm:"column:date_time;not null"`
	SimNum        string     `db:"sim_num"         gorm:"column:sim_num;not null;default:''"`
	PhoneNum      string     `db:"phone_num"       gorm:"column:phone_num;not null;default:''"`
	Status        int        `db:"status"          gorm:"column:status;not null;default:0;index"`
	Comment       *string    `db:"comment"         gorm:"column:comment"`
	Reminds       *time.Time `db:"reminds"         gorm:"column:reminds;type:date"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	m := &model.Transaction{
		ID:            e.ID,
		UserEmail:     e.UserEmail,
		TrackID:       e.TrackID,
		ClientID:      e.ClientID,
		CreditCardID:  e.CreditCardID,
		BankAccountID: e.BankAccountID,
		DateTime:      e.DateTime,
		SimNum:        e.SimNum,
		PhoneNum:      e.PhoneNum,
		Status:        e.Status,
		Reminds:       e.Reminds,
	}
	if e.Comment != nil {
		m.Comment = *e.Comment
	}
	return m
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
