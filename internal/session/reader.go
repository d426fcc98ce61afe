// Package session resolves the signed-in user's identity. The engine never
// reads ambient storage directly; everything goes through the Reader
// interface so tests can substitute identities freely.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoSession indicates that no user identity could be resolved. Callers
// treat this as fatal to the screen and redirect to login.
var ErrNoSession = errors.New("no session")

// Reader resolves the active user id from wherever the deployment persists it.
type Reader interface {
	UserID(ctx context.Context) (int64, error)
}

// Static is a Reader with a fixed user id, the navigation-params analog.
type Static int64

func (s Static) UserID(context.Context) (int64, error) {
	if s <= 0 {
		return 0, ErrNoSession
	}
	return int64(s), nil
}

// FileReader reads the persisted device session, a small JSON file of the
// shape {"user_id": N}.
type FileReader struct {
	Path string
}

func (f FileReader) UserID(context.Context) (int64, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("read session file: %w", err)
	}

	var s struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("parse session file: %w", err)
	}
	if s.UserID <= 0 {
		return 0, ErrNoSession
	}
	return s.UserID, nil
}
