package dto

type OtpRequestInput struct {
	Identifier string `json:"identifier"`
	Purpose    string `json:"purpose"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}

type OtpVerifyInput struct {
	Identifier string `json:"identifier"`
	Purpose    string `json:"purpose"`
	Code       string `json:"code"`
}

type OtpVerifyOutput struct {
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
}
