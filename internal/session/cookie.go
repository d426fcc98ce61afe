package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const cookieName = "petcal_session"

// CookieCodec signs and reads the presentation-layer session cookie.
type CookieCodec struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewCookieCodec derives the signing and encryption keys from the configured
// secret.
func NewCookieCodec(secret string, secure bool) *CookieCodec {
	hash := sha256.Sum256([]byte(secret))

	// The digest doubles as an AES-256 sized block key.
	sc := securecookie.New(hash[:], hash[:])
	sc.MaxAge(86400 * 7)
	sc.SetSerializer(securecookie.JSONEncoder{})

	return &CookieCodec{codec: sc, secure: secure}
}

type cookiePayload struct {
	UserID int64 `json:"user_id"`
	Exp    int64 `json:"exp"`
}

// Issue sets a session cookie for a user.
func (c *CookieCodec) Issue(w http.ResponseWriter, userID int64) error {
	value := cookiePayload{
		UserID: userID,
		Exp:    time.Now().Add(24 * time.Hour).Unix(),
	}

	encoded, err := c.codec.Encode(cookieName, value)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    cookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		Secure:  c.secure,
	})
}

// UserID extracts the user id from the request's session cookie if present
// and unexpired.
func (c *CookieCodec) UserID(r *http.Request) (int64, bool) {
	ck, err := r.Cookie(cookieName)
	if err != nil {
		return 0, false
	}

	var value cookiePayload
	if err := c.codec.Decode(cookieName, ck.Value, &value); err != nil {
		return 0, false
	}
	if time.Unix(value.Exp, 0).Before(time.Now()) {
		return 0, false
	}
	if value.UserID <= 0 {
		return 0, false
	}
	return value.UserID, true
}
