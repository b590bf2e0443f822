package model

// Admin permission levels, highest first.
const (
	AdminPermissionFull    = 3
	AdminPermissionLimited = 2
	AdminPermissionMinimal = 1
)

type Admin struct {
	ID          int64  `json:"id" db:"id"`
	Email       string `json:"admin_email" db:"admin_email"`
	Password    string `json:"-" db:"admin_password"`
	Permissions int    `json:"permissions" db:"permissions"`
}
