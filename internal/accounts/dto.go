package accounts

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=256"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=256"`
}

type sessionResponse struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}
