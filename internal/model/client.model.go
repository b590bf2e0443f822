package model

// Client is the end customer a sale is made for, distinct from User (the
// salesperson). ClientID is the external identifier (national id / CRM id)
// and is the canonical foreign key on transactions and payment instruments;
// the internal numeric ID is never used for joins.
type Client struct {
	ID        int64  `json:"id" db:"id"`
	ClientID  string `json:"client_id" db:"client_id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Address   string `json:"address" db:"address"`
	City      string `json:"city" db:"city"`
	Phone     string `json:"phone" db:"phone"`
	Email     string `json:"email,omitempty" db:"email"`
}

type ClientCreateRequest struct {
	ClientID  string
	FirstName string
	LastName  string
	Address   string
	City      string
	Phone     string
	Email     string
}

func (p ClientCreateRequest) Validate() error {
	if p.ClientID == "" {
		return ErrMissingField("client_id")
	}
	if p.FirstName == "" {
		return ErrMissingField("first_name")
	}
	if p.LastName == "" {
		return ErrMissingField("last_name")
	}
	return nil
}
