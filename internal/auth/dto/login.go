package dto

type LoginInput struct {
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// SimpleLoginInput carries the passwordless login identifier (email or phone).
// Intended for trusted client contexts only.
type SimpleLoginInput struct {
	Identifier string `json:"identifier"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}
