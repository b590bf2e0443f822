package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type TrackEntity struct {
	ID          int64   `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	Company     string  `db:"company"     gorm:"column:company;not null;index"`
	Price       float64 `db:"price"       gorm:"column:price;not null;default:0"`
	Name        string  `db:"track_name"  gorm:"column:track_name;not null"`
	Description string  `db:"description" gorm:"column:description;not null;default:''"`
	Kosher      bool    `db:"kosher"      gorm:"column:kosher;not null;default:false"`
}

func (TrackEntity) TableName() string {
	return "tracks"
}

func toTrackModel(e *TrackEntity) *model.Track {
	if e == nil {
		return nil
	}
	return &model.Track{
		ID:          e.ID,
		Company:     e.Company,
		Price:       e.Price,
		Name:        e.Name,
		Description: e.Description,
		Kosher:      e.Kosher,
	}
}

func toTrackModels(entities []*TrackEntity) []*model.Track {
	if entities == nil {
		return nil
	}
	models := make([]*model.Track, len(entities))
	for i, e := range entities {
		models[i] = toTrackModel(e)
	}
	return models
}
