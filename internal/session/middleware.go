package session

import (
	"net/http"
	"strconv"
	"strings"
)

// Middleware resolves the user id for presentation requests: an explicit
// user_id query parameter wins (the navigation-params analog), then the
// signed session cookie. With neither, the request is bounced to loginURL;
// a missing identity is fatal to the screen, never a silent empty state.
func Middleware(codec *CookieCodec, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.URL.Query().Get("user_id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					http.Error(w, "invalid user_id", http.StatusBadRequest)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
				return
			}

			if codec != nil {
				if id, ok := codec.UserID(r); ok {
					next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
					return
				}
			}

			if wantsJSON(r) {
				w.Header().Set("Location", loginURL)
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, loginURL, http.StatusFound)
		})
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") || accept == ""
}
