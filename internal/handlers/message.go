package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"groupchat-backend/internal/database"
	"groupchat-backend/internal/errs"

	"github.com/go-chi/chi/v5"
)

func GetMessageList(w http.ResponseWriter, r *http.Request) {
	channelID, err := strconv.ParseInt(chi.URLParam(r, "channelID"), 10, 64)
	if err != nil || channelID == 0 {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	_, err = store.FindChannel(channelID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "bad channel")
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	messages, err := store.ListMessages(channelID, database.DefaultMessageLimit)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(messages)
	if err != nil {
		sugar.Error(err)
	}
}
