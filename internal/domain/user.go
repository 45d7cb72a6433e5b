package domain

type User struct {
	ID       int64   `json:"id" db:"id"`
	UserName string  `json:"user_name" db:"user_name"`
	KnownAs  string  `json:"known_as" db:"known_as"`
	PhotoURL *string `json:"photo_url,omitempty" db:"photo_url"`
}

// DisplayName is the name shown in notification texts and reaction lists.
func (u *User) DisplayName() string {
	if u.KnownAs != "" {
		return u.KnownAs
	}
	return u.UserName
}
