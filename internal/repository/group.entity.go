package repository

import (
	"github.com/yakirz/sales-gateway/internal/model"
)

type GroupEntity struct {
	ID   int64  `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Name string `db:"group_name" gorm:"column:group_name;not null;unique"`
}

func (GroupEntity) TableName() string {
	return "groups"
}

func toGroupModel(e *GroupEntity) *model.Group {
	if e == nil {
		return nil
	}
	return &model.Group{
		ID:   e.ID,
		Name: e.Name,
	}
}

func toGroupModels(entities []*GroupEntity) []*model.Group {
	if entities == nil {
		return nil
	}
	models := make([]*model.Group, len(entities))
	for i, e := range entities {
		models[i] = toGroupModel(e)
	}
	return models
}
