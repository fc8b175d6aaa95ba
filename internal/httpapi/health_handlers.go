package httpapi

import (
	"crypto/subtle"
	"net/http"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true})
}

// ShutdownHandler stops the engine when the caller presents the token the
// desktop shell received at startup. Mounted behind LocalOnly.
type ShutdownHandler struct {
	Token    string
	Shutdown func()
}

func (h ShutdownHandler) Post(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get("X-Shutdown-Token")
	if h.Token == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "bad shutdown token")
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("shutting down\n"))
	if h.Shutdown != nil {
		go h.Shutdown()
	}
}
