package jwt

import (
	"fmt"
	"time"

	"groupchat-backend/internal/errs"

	"github.com/golang-jwt/jwt/v5"
)

// UserToken is the identity assertion carried by every connection:
// who the bearer is, signed with the process-wide secret. There is no
// revocation; a token stays valid until its encoded expiry.
type UserToken struct {
	UserID   int64  `json:"userID"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const tokenLifetime = time.Hour * 24 * 7

var jwtSecret []byte

func Setup(key string) {
	jwtSecret = []byte(key)
}

func CreateToken(userID int64, username string) (string, error) {
	return createToken(userID, username, tokenLifetime)
}

func createToken(userID int64, username string, lifetime time.Duration) (string, error) {
	currentTime := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, UserToken{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(lifetime)),
		},
	})

	return token.SignedString(jwtSecret)
}

func VerifyToken(tokenString string) (UserToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserToken{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return UserToken{}, fmt.Errorf("%w: %v", errs.ErrAuth, err)
	}

	claims, ok := token.Claims.(*UserToken)
	if !ok || !token.Valid {
		return UserToken{}, errs.ErrAuth
	}

	return *claims, nil
}
