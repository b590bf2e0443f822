package model

import "time"

// PendingSignup is an invited-but-not-yet-registered user. Token is the
// single-use activation id mailed to the invitee; the row is deleted the
// moment the real User is created, which is what makes the token
// single-use.
type PendingSignup struct {
	ID        int64     `json:"id" db:"id"`
	Token     string    `json:"unique_id" db:"unique_id"`
	GroupID   int64     `json:"group_id" db:"group_id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type InviteRequest struct {
	GroupID   int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

func (p InviteRequest) Validate() error {
	if p.GroupID == 0 {
		return ErrMissingField("group_id")
	}
	if p.Email == "" {
		return ErrMissingField("email")
	}
	if p.FirstName == "" {
		return ErrMissingField("first_name")
	}
	if p.LastName == "" {
		return ErrMissingField("last_name")
	}
	return nil
}

// InviteEmailJob is the payload queued for the mailer worker.
type InviteEmailJob struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	SignupURL string `json:"signup_url"`
}
