package application

import (
	"time"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
)

// UserView is the public projection of a user. It never carries the
// password hash.
type UserView struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	FullName        string `json:"full_name"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

// AuthSession is returned by a successful Register or Login.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserView  `json:"user"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:              u.ID(),
		Email:           u.Email(),
		FirstName:       u.FirstName(),
		LastName:        u.LastName(),
		FullName:        u.FullName(),
		Role:            u.Role().String(),
		IsEmailVerified: u.IsEmailVerified(),
	}
}

// NewAuthSession pairs both tokens and their expiry with the sanitized user.
func NewAuthSession(u *entity.User, accessToken, refreshToken string, expiresAt time.Time) *AuthSession {
	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC(),
		User:         NewUserView(u),
	}
}
