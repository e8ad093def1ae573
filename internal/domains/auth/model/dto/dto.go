package dto

import (
	"strings"
	"time"

	"hotel/infras/jwt"
	adminModel "hotel/internal/domains/admin/model"
	userModel "hotel/internal/domains/user/model"
	"hotel/shared/constant"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"        example:"Jane Doe"`
	Email    string `json:"email"     validate:"required,email,max=100"  example:"jane@example.com"`
	Phone    string `json:"phone"     validate:"omitempty,max=20"          example:"+628123456789"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

// ToUserModel lower cases the email so lookups are case insensitive.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	id := uuid.NewString()

	var phone *string
	if r.Phone != constant.Empty {
		phone = &r.Phone
	}

	return userModel.User{
		ID:       id,
		FullName: strings.TrimSpace(r.FullName),
		Email:    strings.ToLower(r.Email),
		Phone:    phone,
		Password: hashedPassword,
		Level:    constant.RoleUser,
		Active:   true,
		Metadata: gModel.NewMetadata(id, timezone.Now()),
	}
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

type Profile struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
}

type LoginResponse struct {
	TokenResponse
	User Profile `json:"user"`
}

func (l *LoginResponse) FromUser(tokenPair *jwt.TokenPair, user userModel.User) {
	l.FromTokenPair(tokenPair)
	l.User = Profile{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
	}
}

type AdminProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type AdminLoginResponse struct {
	TokenResponse
	Admin AdminProfile `json:"admin"`
}

func (a *AdminLoginResponse) FromAdmin(tokenPair *jwt.TokenPair, admin adminModel.Admin) {
	a.FromTokenPair(tokenPair)
	a.Admin = AdminProfile{
		ID:       admin.ID,
		Username: admin.Username,
		Name:     admin.Name,
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
