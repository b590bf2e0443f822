package repository

import (
	"context"
	"errors"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupInUse    = errors.New("group still has users")
)

type GroupRepository struct {
	*pg.DB
}

func NewGroupRepository(db *pg.DB) *GroupRepository {
	return &GroupRepository{
		db,
	}
}

func (r *GroupRepository) Create(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error) {
	entity := &GroupEntity{Name: p.Name}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toGroupModel(entity), nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	var entity GroupEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return toGroupModel(&entity), nil
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*model.Group, error) {
	var entity GroupEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("group_name = ?", name).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return toGroupModel(&entity), nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	var entities []*GroupEntity
	if err := r.Read(ctx).WithContext(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toGroupModels(entities), nil
}

func (r *GroupRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&GroupEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&GroupEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}
