package dto

// UserResponse is a user profile as returned to clients.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       *int   `json:"age,omitempty"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
}

// RegisterUserRequest carries a new account.
type RegisterUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Age       *int   `json:"age" binding:"omitempty,gte=14,lte=120"`
	Gender    string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
	City      string `json:"city" binding:"omitempty,max=100"`
}

// UpdateUserRequest carries changed profile fields.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Age       *int    `json:"age" binding:"omitempty,gte=14,lte=120"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	City      *string `json:"city" binding:"omitempty,max=100"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}
