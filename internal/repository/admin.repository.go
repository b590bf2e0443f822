package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrAdminNotFound = errors.New("admin not found")

type AdminRepository struct {
	*pg.DB
}

func NewAdminRepository(db *pg.DB) *AdminRepository {
	return &AdminRepository{
		db,
	}
}

func (r *AdminRepository) Create(ctx context.Context, email, passwordHash string, permissions int) (*model.Admin, error) {
	entity := &AdminEntity{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Password:    passwordHash,
		Permissions: permissions,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toAdminModel(entity), nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var entity AdminEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("admin_email = ?", strings.ToLower(email)).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return toAdminModel(&entity), nil
}

func (r *AdminRepository) List(ctx context.Context) ([]*model.Admin, error) {
	var entities []AdminEntity
	if err := r.Read(ctx).WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	admins := make([]*model.Admin, 0, len(entities))
	for i := range entities {
		admins = append(admins, toAdminModel(&entities[i]))
	}
	return admins, nil
}

func (r *AdminRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&AdminEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&AdminEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}
