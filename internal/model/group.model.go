package model

type Group struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"group_name" db:"group_name"`
}

type GroupCreateRequest struct {
	Name string
}

func (p GroupCreateRequest) Validate() error {
	if p.Name == "" {
		return ErrMissingField("group_name")
	}
	return nil
}
