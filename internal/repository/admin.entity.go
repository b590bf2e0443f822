package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type AdminEntity struct {
	ID          int64  `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	Email       string `db:"admin_email"    gorm:"column:admin_email;not null;unique"`
	Password    string `db:"admin_password" gorm:"column:admin_password;not null"`
	Permissions int    `db:"permissions"    gorm:"column:permissions;not null;default:1"`
}

func (AdminEntity) TableName() string {
	return "admins"
}

func toAdminModel(e *AdminEntity) *model.Admin {
	if e == nil {
		return nil
	}
	return &model.Admin{
		ID:          e.ID,
		Email:       e.Email,
		Password:    e.Password,
		Permissions: e.Permissions,
	}
}
