package model

// Track is a purchasable plan/product offered by a company.
type Track struct {
	ID          int64   `json:"id" db:"id"`
	Company     string  `json:"company" db:"company"`
	Price       float64 `json:"price" db:"price"`
	Name        string  `json:"track_name" db:"track_name"`
	Description string  `json:"description" db:"description"`
	Kosher      bool    `json:"kosher" db:"kosher"`
}

type TrackCreateRequest struct {
	Company     string
	Price       float64
	Name        string
	Description string
	Kosher      bool
}

func (p TrackCreateRequest) Validate() error {
	if p.Company == "" {
		return ErrMissingField("company")
	}
	if p.Name == "" {
		return ErrMissingField("track_name")
	}
	return nil
}

// TrackFilter controls List queries.
type TrackFilter struct {
	Company *string
	Kosher  *bool
}
