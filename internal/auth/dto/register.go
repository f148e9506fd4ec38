package dto

type RegisterInput struct {
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	FirstName  string `json:"prenom"`
	LastName   string `json:"nom"`
	Password   string `json:"password"`
	ProviderID string `json:"provider_id"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}
