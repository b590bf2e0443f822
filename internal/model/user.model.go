package model

// User is the internal actor: the salesperson who logs in and is recorded
// on every transaction. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        int64  `json:"id" db:"id"`
	GroupID   int64  `json:"group_id" db:"group_id"`
	Email     string `json:"user_email" db:"user_email"`
	Password  string `json:"-" db:"user_password"`
	FirstName string `json:"user_first_name" db:"user_first_name"`
	LastName  string `json:"user_last_name" db:"user_last_name"`
	Phone     string `json:"user_phone,omitempty" db:"user_phone"`
}

type UserCreateRequest struct {
	GroupID   int64
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (p UserCreateRequest) Validate() error {
	if p.GroupID == 0 {
		return ErrMissingField("group_id")
	}
	if p.Email == "" {
		return ErrMissingField("user_email")
	}
	if p.Password == "" {
		return ErrMissingField("user_password")
	}
	if p.FirstName == "" {
		return ErrMissingField("user_first_name")
	}
	if p.LastName == "" {
		return ErrMissingField("user_last_name")
	}
	return nil
}

// UserFilter controls List queries.
type UserFilter struct {
	GroupID *int64
}
