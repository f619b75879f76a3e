package model

// Session is the persisted identity of the logged-in user.
type Session struct {
	ID         int    `json:"id"`
	FullName   string `json:"nombre"`
	NationalID string `json:"cedula"`
	Phone      string `json:"telefono"`
	Role       Role   `json:"rol"`
}

// SessionFromUser builds a session record from a validated user, dropping the
// password if the backend returned one.
func SessionFromUser(u *User) Session {
	return Session{
		ID:         u.ID,
		FullName:   u.FullName,
		NationalID: u.NationalID,
		Phone:      u.Phone,
		Role:       u.Role,
	}
}
