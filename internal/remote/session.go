package remote

import (
	"encoding/json"
	"fmt"
	"os"
)

// Session holds the authenticated cookies and CSRF token for the remote
// service. It is persisted between invocations so a sync does not require
// logging in every time.
type Session struct {
	Cookies map[string]string `json:"cookies"`
	CSRF    string            `json:"csrf"`
}

// LoadSession reads a persisted session from path.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no persisted session at %s — run 'texsync login' first", path)
		}
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if s.CSRF == "" || len(s.Cookies) == 0 {
		return nil, fmt.Errorf("session %s is incomplete — run 'texsync login' again", path)
	}
	return &s, nil
}

// SaveSession writes the session atomically with owner-only permissions.
func SaveSession(path string, s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing temp session %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp session to %s: %w", path, err)
	}
	return nil
}
