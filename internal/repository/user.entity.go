package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type UserEntity struct {
	ID        int64   `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	GroupID   int64   `db:"group_id"        gorm:"column:group_id;not null;index"`
	Email     string  `db:"user_email"      gorm:"column:user_email;not null;unique"`
	Password  string  `db:"user_password"   gorm:"column:user_password;not null"`
	FirstName string  `db:"user_first_name" gorm:"column:user_first_name;not null"`
	LastName  string  `db:"user_last_name"  gorm:"column:user_last_name;not null"`
	Phone     *string `db:"user_phone"      gorm:"column:user_phone"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	m := &model.User{
		ID:        e.ID,
		GroupID:   e.GroupID,
		Email:     e.Email,
		Password:  e.Password,
		FirstName: e.FirstName,
		LastName:  e.LastName,
	}
	if e.Phone != nil {
		m.Phone = *e.Phone
	}
	return m
}

func toUserModels(entities []*UserEntity) []*model.User {
	if entities == nil {
		return nil
	}
	models := make([]*model.User, len(entities))
	for i, e := range entities {
		models[i] = toUserModel(e)
	}
	return models
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
