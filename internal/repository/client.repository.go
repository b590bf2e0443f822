package repository

import (
	"context"
	"errors"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrClientNotFound = errors.New("client not found")

type ClientRepository struct {
	*pg.DB
}

func NewClientRepository(db *pg.DB) *ClientRepository {
	return &ClientRepository{
		db,
	}
}

func (r *ClientRepository) Create(ctx context.Context, p model.ClientCreateRequest) (*model.Client, error) {
	entity := &ClientEntity{
		ClientID:  p.ClientID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Address:   p.Address,
		City:      p.City,
		Phone:     p.Phone,
		Email:     optional(p.Email),
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toClientModel(entity), nil
}

// GetByClientID looks a client up by the external id, the canonical key.
func (r *ClientRepository) GetByClientID(ctx context.Context, clientID string) (*model.Client, error) {
	var entity ClientEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return toClientModel(&entity), nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	var entity ClientEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return toClientModel(&entity), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*model.Client, error) {
	var entities []*ClientEntity
	if err := r.Read(ctx).WithContext(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toClientModels(entities), nil
}

func (r *ClientRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ClientEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&ClientEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
