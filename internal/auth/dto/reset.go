package dto

type ForgotPasswordInput struct {
	Telephone string `json:"telephone"`
}

type VerifyResetOtpInput struct {
	Telephone string `json:"telephone"`
	Otp       string `json:"otp"`
}

type VerifyResetOtpOutput struct {
	ResetToken string `json:"reset_token"`
	ExpiresIn  int64  `json:"expires_in"`
}

type ResetPasswordInput struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}
