package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"groupchat-backend/internal/errs"
	"groupchat-backend/internal/keyValue"

	"github.com/go-chi/chi/v5"
)

// resolveInvite turns an invite code into a space id, going through the
// cache first. Invites never change once issued, so caching is safe.
// Cache failures are logged, never surfaced: the store stays the source
// of truth.
func resolveInvite(invite string) (int64, error) {
	key := fmt.Sprintf("invite:%s", invite)

	cached, err := keyValue.Get(key)
	if err != nil {
		sugar.Errorf("Reading invite cache: %v", err)
	} else if cached != "" {
		spaceID, err := strconv.ParseInt(cached, 10, 64)
		if err == nil {
			return spaceID, nil
		}
		sugar.Warnf("Cached space ID [%s] for invite [%s] is malformed", cached, invite)
	}

	space, err := store.FindSpaceByInvite(invite)
	if err != nil {
		return 0, err
	}

	err = keyValue.Set(key, fmt.Sprint(space.ID), time.Hour)
	if err != nil {
		sugar.Errorf("Caching invite [%s]: %v", invite, err)
	}

	return space.ID, nil
}

func GetChannelList(w http.ResponseWriter, r *http.Request) {
	invite := chi.URLParam(r, "invite")

	spaceID, err := resolveInvite(invite)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "bad invite")
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	channels, err := store.ListChannels(spaceID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = json.NewEncoder(w).Encode(channels)
	if err != nil {
		sugar.Error(err)
	}
}
