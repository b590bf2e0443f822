package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type ClientEntity struct {
	ID        int64   `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	ClientID  string  `db:"client_id"  gorm:"column:client_id;not null;unique"`
	FirstName string  `db:"first_name" gorm:"column:first_name;not null"`
	LastName  string  `db:"last_name"  gorm:"column:last_name;not null"`
	Address   string  `db:"address"    gorm:"column:address;not null;default:''"`
	City      string  `db:"city"       gorm:"column:city;not null;default:''"`
	Phone     string  `db:"phone"      gorm:"column:phone;not null;default:''"`
	Email     *string `db:"email"      gorm:"column:email"`
}

func (ClientEntity) TableName() string {
	return "clients"
}

func toClientModel(e *ClientEntity) *model.Client {
	if e == nil {
		return nil
	}
	m := &model.Client{
		ID:        e.ID,
		ClientID:  e.ClientID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Address:   e.Address,
		City:      e.City,
		Phone:     e.Phone,
	}
	if e.Email != nil {
		m.Email = *e.Email
	}
	return m
}

func toClientModels(entities []*ClientEntity) []*model.Client {
	if entities == nil {
		return nil
	}
	models := make([]*model.Client, len(entities))
	for i, e := range entities {
		models[i] = toClientModel(e)
	}
	return models
}
