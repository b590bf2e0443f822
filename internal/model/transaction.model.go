package model

import "time"

// Transaction lifecycle stages.
const (
	StatusNew     = 0
	StatusSuccess = 1
	StatusFail    = 2
)

// Transaction is one sold track line. A cart of N line items becomes N rows
// sharing one creation instant. ClientID is the external client id.
type Transaction struct {
	ID            int64      `json:"id" db:"id"`
	UserEmail     string     `json:"user_email" db:"user_email"`
	TrackID       int64      `json:"track_id" db:"track_id"`
	ClientID      string     `json:"client_id" db:"client_id"`
	CreditCardID  *int64     `json:"credit_card_id,omitempty" db:"credit_card_id"`
	BankAccountID *int64     `json:"bank_account_id,omitempty" db:"bank_account_id"`
	DateTime      time.Time  `json:"date_time" db:"date_time"`
	SimNum        string     `json:"sim_num" db:"sim_num"`
	PhoneNum      string     `json:"phone_num" db:"phone_num"`
	Status        int        `json:"status" db:"status"`
	Comment       string     `json:"comment,omitempty" db:"comment"`
	Reminds       *time.Time `json:"reminds,omitempty" db:"reminds"`
}

// CartItem is one line of a sale: the sim/phone pair a track is sold for.
type CartItem struct {
	SimNum   string `json:"sim_num"`
	PhoneNum string `json:"phone_num"`
}

// Cart maps track id to the line items sold for that track.
type Cart map[int64][]CartItem

func (c Cart) Lines() int {
	n := 0
	for _, items := range c {
		n += len(items)
	}
	return n
}

type SaleCreateRequest struct {
	UserEmail string
	Client    ClientCreateRequest
	Payment   PaymentRef
	Cart      Cart
	Comment   string
	Reminds   *time.Time
}

func (p SaleCreateRequest) Validate() error {
	if p.UserEmail == "" {
		return ErrMissingField("user_email")
	}
	if err := p.Client.Validate(); err != nil {
		return err
	}
	if err := p.Payment.Validate(); err != nil {
		return err
	}
	if p.Cart.Lines() == 0 {
		return ErrMissingField("tracks")
	}
	return nil
}

// TransactionFilter controls List queries.
type TransactionFilter struct {
	UserEmail *string
	Status    *int
	ClientID  *string
}

// PendingSale is one status-report row: a new transaction joined with its
// client, salesperson and track display data.
type PendingSale struct {
	TransactionID   int64     `json:"transaction_id" db:"transaction_id"`
	DateTime        time.Time `json:"date_time" db:"date_time"`
	UserEmail       string    `json:"user_email" db:"user_email"`
	UserFirstName   string    `json:"user_first_name" db:"user_first_name"`
	UserLastName    string    `json:"user_last_name" db:"user_last_name"`
	ClientID        string    `json:"client_id" db:"client_id"`
	ClientFirstName string    `json:"client_first_name" db:"client_first_name"`
	ClientLastName  string    `json:"client_last_name" db:"client_last_name"`
	ClientPhone     string    `json:"client_phone" db:"client_phone"`
	TrackName       string    `json:"track_name" db:"track_name"`
	Company         string    `json:"company" db:"company"`
	SimNum          string    `json:"sim_num" db:"sim_num"`
	PhoneNum        string    `json:"phone_num" db:"phone_num"`
	PaymentKind     string    `json:"payment_kind" db:"payment_kind"`
}

// SaleRecord is one row of a salesperson's own history.
type SaleRecord struct {
	TransactionID   int64     `json:"transaction_id" db:"transaction_id"`
	ClientFirstName string    `json:"client_first_name" db:"client_first_name"`
	ClientLastName  string    `json:"client_last_name" db:"client_last_name"`
	ClientPhone     string    `json:"client_phone" db:"client_phone"`
	TrackName       string    `json:"track_name" db:"track_name"`
	Status          int       `json:"status" db:"status"`
	DateTime        time.Time `json:"date_time" db:"date_time"`
	PhoneNum        string    `json:"phone_num" db:"phone_num"`
	SimNum          string    `json:"sim_num" db:"sim_num"`
	Comment         string    `json:"comment,omitempty" db:"comment"`
}

// MonthlySummary counts a salesperson's transactions by status within one
// calendar month.
type MonthlySummary struct {
	Fail    int64 `json:"fail"`
	Success int64 `json:"success"`
	Waiting int64 `json:"waiting"`
}
