package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"groupchat-backend/internal/errs"
	"groupchat-backend/internal/jwt"
	"groupchat-backend/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func Register(w http.ResponseWriter, r *http.Request) {
	type Registration struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	var registration Registration
	err := json.NewDecoder(r.Body).Decode(&registration)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	err = validate.Struct(registration)
	if err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	err = validator.Username(registration.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(registration.Password), 10)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	user, err := store.CreateUser(registration.Username, passwordBytes)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			writeError(w, http.StatusBadRequest, "user exists")
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	tokenString, err := jwt.CreateToken(user.ID, user.Username)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(tokenResponse{Token: tokenString})
	if err != nil {
		sugar.Error(err)
	}
}

func Login(w http.ResponseWriter, r *http.Request) {
	type Login struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var login Login
	err := json.NewDecoder(r.Body).Decode(&login)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	user, err := store.FindUserByUsername(login.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, http.StatusForbidden, "invalid")
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = bcrypt.CompareHashAndPassword(user.Password, []byte(login.Password))
	if err != nil {
		sugar.Debug(err)
		writeError(w, http.StatusForbidden, "invalid")
		return
	}

	tokenString, err := jwt.CreateToken(user.ID, user.Username)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(tokenResponse{Token: tokenString})
	if err != nil {
		sugar.Error(err)
	}
}
