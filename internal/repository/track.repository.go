package repository

import (
	"context"
	"errors"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrTrackNotFound = errors.New("track not found")

type TrackRepository struct {
	*pg.DB
}

func NewTrackRepository(db *pg.DB) *TrackRepository {
	return &TrackRepository{
		db,
	}
}

func (r *TrackRepository) Create(ctx context.Context, p model.TrackCreateRequest) (*model.Track, error) {
	entity := &TrackEntity{
		Company:     p.Company,
		Price:       p.Price,
		Name:        p.Name,
		Description: p.Description,
		Kosher:      p.Kosher,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toTrackModel(entity), nil
}

func (r *TrackRepository) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	var entity TrackEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}
	return toTrackModel(&entity), nil
}

func (r *TrackRepository) List(ctx context.Context, f model.TrackFilter) ([]*model.Track, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TrackEntity{})
	if f.Company != nil && *f.Company != "" {
		q = q.Where("company = ?", *f.Company)
	}
	if f.Kosher != nil {
		q = q.Where("kosher = ?", *f.Kosher)
	}

	var entities []*TrackEntity
	if err := q.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTrackModels(entities), nil
}

func (r *TrackRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&TrackEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTrackNotFound
	}
	return nil
}

func (r *TrackRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&TrackEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTrackNotFound
	}
	return nil
}
