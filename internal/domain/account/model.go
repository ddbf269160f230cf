package account

// LoginRequest is the login form and the body of the API login call.
type LoginRequest struct {
	Username string `json:"username" form:"username" label:"Username" validate:"required"`
	Password string `json:"password" form:"password" label:"Password" validate:"required"`
}

// TokenResponse is the API's answer to a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
