package dto

type GoogleLoginInput struct {
	IDToken   string `json:"id_token"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type AppleLoginInput struct {
	IdentityToken string `json:"identity_token"`
	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
}
