// Package auth регистрация и вход операторов монитора: bcrypt для
// паролей, JWT для доступа к API.
package auth

type User struct {
	ID           string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string `gorm:"not null;type:varchar(100)" json:"name"`
	LastName     string `gorm:"not null;type:varchar(100)" json:"last_name"`
	Email        string `json:"email" gorm:"type:varchar(255);unique;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
}

func (User) TableName() string {
	return "users"
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"last_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
}
