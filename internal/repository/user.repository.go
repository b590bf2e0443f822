package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepository struct {
	*pg.DB
}

func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

// Create inserts a new user. The caller passes the password already hashed;
// Email is normalized to lower case, matching login.
func (r *UserRepository) Create(ctx context.Context, p model.UserCreateRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	var existing UserEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("user_email = ?", email).
		First(&existing).
		Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entity := &UserEntity{
		GroupID:   p.GroupID,
		Email:     email,
		Password:  p.Password,
		FirstName: strings.ToLower(p.FirstName),
		LastName:  strings.ToLower(p.LastName),
		Phone:     optional(p.Phone),
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		// the unique index backs up the pre-read under concurrency
		return nil, err
	}

	return toUserModel(entity), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("user_email = ?", strings.ToLower(email)).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

func (r *UserRepository) List(ctx context.Context, f model.UserFilter) ([]*model.User, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&UserEntity{})
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}

	var entities []*UserEntity
	if err := q.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toUserModels(entities), nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	if email, ok := values["user_email"].(string); ok {
		values["user_email"] = strings.ToLower(email)
	}
	result := r.Write(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&UserEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
