package repository

import (
	"time"

	"github.com/yakirz/sales-gateway/internal/model"
)

type PendingSignupEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Token     string    `db:"unique_id"  gorm:"column:unique_id;not null;unique"`
	GroupID   int64     `db:"group_id"   gorm:"column:group_id;not null"`
	Email     string    `db:"email"      gorm:"column:email;not null"`
	FirstName string    `db:"first_name" gorm:"column:first_name;not null"`
	LastName  string    `db:"last_name"  gorm:"column:last_name;not null"`
	Phone     *string   `db:"phone"      gorm:"column:phone"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PendingSignupEntity) TableName() string {
	return "pending_signups"
}

func toPendingSignupModel(e *PendingSignupEntity) *model.PendingSignup {
	if e == nil {
		return nil
	}
	m := &model.PendingSignup{
		ID:        e.ID,
		Token:     e.Token,
		GroupID:   e.GroupID,
		Email:     e.Email,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		CreatedAt: e.CreatedAt,
	}
	if e.Phone != nil {
		m.Phone = *e.Phone
	}
	return m
}
