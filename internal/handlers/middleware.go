package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"groupchat-backend/internal/jwt"
	"groupchat-backend/internal/keyValue"
)

type UserTokenKeyType struct{}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func AllowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserVerifier admits requests carrying a valid bearer token whose
// asserted user actually exists, and passes the verified identity on
// through the request context.
func UserVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		userToken, err := jwt.VerifyToken(token)
		if err != nil {
			sugar.Debug(err)
			writeError(w, http.StatusUnauthorized, "bad token")
			return
		}

		userFound, err := userExists(userToken.UserID)
		if err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		if !userFound {
			sugar.Debugf("Token asserts unknown user ID [%d]", userToken.UserID)
			writeError(w, http.StatusUnauthorized, "bad token")
			return
		}

		ctx := context.WithValue(r.Context(), UserTokenKeyType{}, userToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userExists checks the asserted user id against the store, going
// through the cache first. Users are never deleted, so a positive
// answer can be cached.
func userExists(userID int64) (bool, error) {
	key := fmt.Sprintf("user_exists:%d", userID)

	value, err := keyValue.Get(key)
	if err != nil {
		sugar.Errorf("Reading user cache: %v", err)
	} else if value != "" {
		return true, nil
	}

	userFound, err := store.UserExists(userID)
	if err != nil {
		return false, err
	}

	if userFound {
		err = keyValue.Set(key, "y", 15*time.Minute)
		if err != nil {
			sugar.Errorf("Caching user ID [%d]: %v", userID, err)
		}
	}

	return userFound, nil
}
