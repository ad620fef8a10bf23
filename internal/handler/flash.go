package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "feed_flash"

// Flash is a one-shot status message relayed across a redirect.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// setFlashes queues messages for the next page load. The cookie replaces
// any pending messages; each workflow call produces its own result.
func setFlashes(w http.ResponseWriter, level string, messages ...string) {
	flashes := make([]Flash, 0, len(messages))
	for _, m := range messages {
		flashes = append(flashes, Flash{Level: level, Message: m})
	}
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// popFlashes reads pending messages and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
