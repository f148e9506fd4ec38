package dto

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
	IPAddress    string `json:"-"`
}

type LogoutInput struct {
	RefreshToken string `json:"refresh_token"`
}
