package jwt

import (
	"errors"
	"testing"
	"time"

	"groupchat-backend/internal/errs"
)

func TestCreateAndVerifyToken(t *testing.T) {
	Setup("test-secret")

	tokenString, err := CreateToken(42, "alice")
	if err != nil {
		t.Fatal(err)
	}

	userToken, err := VerifyToken(tokenString)
	if err != nil {
		t.Fatal(err)
	}

	if userToken.UserID != 42 {
		t.Errorf("got user ID %d, want 42", userToken.UserID)
	}
	if userToken.Username != "alice" {
		t.Errorf("got username %q, want %q", userToken.Username, "alice")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	Setup("test-secret")

	tokenString, err := CreateToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}

	_, err = VerifyToken(tokenString + "x")
	if !errors.Is(err, errs.ErrAuth) {
		t.Errorf("got %v, want ErrAuth", err)
	}
}

func TestVerifyTokenSignedWithDifferentSecret(t *testing.T) {
	Setup("first-secret")

	tokenString, err := CreateToken(1, "bob")
	if err != nil {
		t.Fatal(err)
	}

	Setup("second-secret")

	_, err = VerifyToken(tokenString)
	if !errors.Is(err, errs.ErrAuth) {
		t.Errorf("got %v, want ErrAuth", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	Setup("test-secret")

	tokenString, err := createToken(1, "bob", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	_, err = VerifyToken(tokenString)
	if !errors.Is(err, errs.ErrAuth) {
		t.Errorf("got %v, want ErrAuth", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	Setup("test-secret")

	_, err := VerifyToken("not-a-token")
	if !errors.Is(err, errs.ErrAuth) {
		t.Errorf("got %v, want ErrAuth", err)
	}
}
