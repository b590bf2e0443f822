package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

// ErrSignupNotFound covers both unknown and already-consumed tokens: a
// consumed invite row no longer exists, which is what makes the token
// single-use.
var ErrSignupNotFound = errors.New("pending signup not found")

type PendingSignupRepository struct {
	*pg.DB
}

func NewPendingSignupRepository(db *pg.DB) *PendingSignupRepository {
	return &PendingSignupRepository{
		db,
	}
}

func (r *PendingSignupRepository) Create(ctx context.Context, token string, p model.InviteRequest) (*model.PendingSignup, error) {
	entity := &PendingSignupEntity{
		Token:     token,
		GroupID:   p.GroupID,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     optional(p.Phone),
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPendingSignupModel(entity), nil
}

func (r *PendingSignupRepository) GetByToken(ctx context.Context, token string) (*model.PendingSignup, error) {
	var entity PendingSignupEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("unique_id = ?", token).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}
	return toPendingSignupModel(&entity), nil
}

func (r *PendingSignupRepository) DeleteByToken(ctx context.Context, token string) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("unique_id = ?", token).
		Delete(&PendingSignupEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSignupNotFound
	}
	return nil
}

func (r *PendingSignupRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.Write(ctx).WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Delete(&PendingSignupEntity{}).
		Error
}
