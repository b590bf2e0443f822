package model

// A client may keep at most one credit card and one bank account on file.
// A transaction references one of them, never both.

type CreditCard struct {
	ID         int64  `json:"id" db:"id"`
	ClientID   string `json:"client_id" db:"client_id"`
	CardNumber string `json:"card_number" db:"card_number"`
	Month      string `json:"month" db:"month"`
	Year       string `json:"year" db:"year"`
	CVV        string `json:"-" db:"cvv"`
}

type BankAccount struct {
	ID         int64  `json:"id" db:"id"`
	ClientID   string `json:"client_id" db:"client_id"`
	AccountNum string `json:"account_num" db:"account_num"`
	Branch     string `json:"branch" db:"branch"`
	BankNum    string `json:"bank_num" db:"bank_num"`
}

// PaymentRef is the payment instrument attached to a sale at creation time.
// Exactly one of CreditCard/BankAccount may be set; Reference carries the
// opaque token the payment verifier returned, when verification ran.
type PaymentRef struct {
	CreditCard  *CreditCard
	BankAccount *BankAccount
	Reference   string
}

func (p PaymentRef) Validate() error {
	if p.CreditCard != nil && p.BankAccount != nil {
		return ErrConflictingPayment
	}
	return nil
}

var ErrConflictingPayment = ErrMissingField("exactly one payment instrument")
