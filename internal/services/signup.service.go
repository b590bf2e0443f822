package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	"github.com/yakirz/sales-gateway/pkg/logger"
	"github.com/yakirz/sales-gateway/pkg/prom"
)

var ErrSignupTokenUsed = errors.New("signup link is no longer valid")

type PendingSignupRepository interface {
	Create(ctx context.Context, token string, p model.InviteRequest) (*model.PendingSignup, error)
	GetByToken(ctx context.Context, token string) (*model.PendingSignup, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByEmail(ctx context.Context, email string) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserCreator interface {
	Create(ctx context.Context, p model.UserCreateRequest) (*model.User, error)
}

type JobPublisher interface {
	PublishJSON(ctx context.Context, v interface{}, metadata map[string]string) (string, error)
}

// SignupService runs the invite flow: an admin invites an email into a
// group, the invitee gets a single-use link, and completing it turns the
// pending signup into a salesperson account.
type SignupService struct {
	signups       PendingSignupRepository
	users         UserCreator
	inviteQueue   JobPublisher
	signupBaseURL string
}

func NewSignupService(signups PendingSignupRepository, users UserCreator, inviteQueue JobPublisher, signupBaseURL string) *SignupService {
	return &SignupService{
		signups:       signups,
		users:         users,
		inviteQueue:   inviteQueue,
		signupBaseURL: signupBaseURL,
	}
}

// Invite creates a pending signup under a fresh token and queues the
// invite email. A reinvite for the same address replaces earlier tokens.
func (s *SignupService) Invite(ctx context.Context, p model.InviteRequest) (*model.PendingSignup, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	token := uuid.NewString()

	var created *model.PendingSignup
	err := s.signups.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.signups.DeleteByEmail(ctx, p.Email); err != nil {
			return fmt.Errorf("replace earlier invites: %w", err)
		}
		var err error
		created, err = s.signups.Create(ctx, token, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.inviteQueue != nil {
		job := model.InviteEmailJob{
			Email:     created.Email,
			FirstName: created.FirstName,
			SignupURL: fmt.Sprintf("%s/singUp?unique_id=%s", s.signupBaseURL, token),
		}
		if _, err := s.inviteQueue.PublishJSON(ctx, job, map[string]string{"kind": "invite"}); err != nil {
			// the invite row exists, the admin can resend
			logger.Error("failed to queue invite email", "email", created.Email, "err", err)
		} else {
			prom.IncCounter(prom.SystemSignups, prom.MetricInvitesSent)
		}
	}

	return created, nil
}

// Lookup resolves a signup token to the invite it came from.
func (s *SignupService) Lookup(ctx context.Context, token string) (*model.PendingSignup, error) {
	pending, err := s.signups.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			prom.IncCounter(prom.SystemSignups, prom.MetricSignupTokenReuse)
			return nil, ErrSignupTokenUsed
		}
		return nil, err
	}
	return pending, nil
}

// Complete turns a pending signup into a user account and burns the
// token, atomically. A second Complete with the same token fails.
func (s *SignupService) Complete(ctx context.Context, token, password string) (*model.User, error) {
	if password == "" {
		return nil, model.ErrMissingField("user_password")
	}

	pending, err := s.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	err = s.signups.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.Create(ctx, model.UserCreateRequest{
			GroupID:   pending.GroupID,
			Email:     pending.Email,
			Password:  hash,
			FirstName: pending.FirstName,
			LastName:  pending.LastName,
			Phone:     pending.Phone,
		})
		if err != nil {
			return err
		}
		// burning the token inside the same unit keeps it single use
		if err := s.signups.DeleteByToken(ctx, token); err != nil {
			if errors.Is(err, repository.ErrSignupNotFound) {
				return ErrSignupTokenUsed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounter(prom.SystemSignups, prom.MetricSignupsCompleted)
	return user, nil
}
