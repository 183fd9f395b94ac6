package handlers

import (
	"encoding/json"
	"net/http"

	"groupchat-backend/internal/jwt"
)

func GetServerList(w http.ResponseWriter, r *http.Request) {
	spaces, err := store.ListSpaces()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(spaces)
	if err != nil {
		sugar.Error(err)
	}
}

func CreateServer(w http.ResponseWriter, r *http.Request) {
	userToken := r.Context().Value(UserTokenKeyType{}).(jwt.UserToken)

	type CreateRequest struct {
		Name string `json:"name"`
	}

	var createRequest CreateRequest
	err := json.NewDecoder(r.Body).Decode(&createRequest)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if createRequest.Name == "" {
		createRequest.Name = "My server"
	}

	space, err := store.CreateSpace(createRequest.Name)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	sugar.Debugf("User ID [%d] created space ID [%d]", userToken.UserID, space.ID)

	type CreateResponse struct {
		ID     int64  `json:"id"`
		Invite string `json:"invite"`
	}

	err = json.NewEncoder(w).Encode(CreateResponse{ID: space.ID, Invite: space.Invite})
	if err != nil {
		sugar.Error(err)
	}
}
