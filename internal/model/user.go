package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account
type User struct {
	ID           string `json:"id"`
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose password hash in JSON responses
	Role         string `json:"role"`
}

// UserOutput is the projection returned by mutating user operations
type UserOutput struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// UserRoleView is the minimal projection used when listing all users
type UserRoleView struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Identity holds the authenticated caller's claims as populated by the
// auth middleware. It is the only user information handlers may trust.
type Identity struct {
	ID       string `json:"_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CreateUserRequest is the registration payload
type CreateUserRequest struct {
	UserName string `json:"user_name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,min=6,email"`
	Password string `json:"password" binding:"required,min=5"`
}

// UpdateUserRequest allows partial self-service updates
type UpdateUserRequest struct {
	UserName *string `json:"user_name,omitempty" binding:"omitempty,min=2"`
	Email    *string `json:"email,omitempty" binding:"omitempty,min=6,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=5"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
}

// LoginRequest is the credential payload for token issuance
type LoginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}
