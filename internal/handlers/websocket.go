package handlers

import "net/http"

func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	chatHub.HandleClient(w, r)
}
