package dto

// Data Transfer Objects for the librarian session

// LoginRequest: credentials posted to /login/
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// LoginResponse: response payload after successful authentication
type LoginResponse struct {
	Token       string `json:"token"`
	TokenType   string `json:"token_type"`
	LibrarianID string `json:"librarian_id"`
	Username    string `json:"username"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
