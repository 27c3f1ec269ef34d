package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the response body. Lobby and match views go stale on the
// next websocket event, so responses are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
