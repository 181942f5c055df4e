package client

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the session token between runs, the CLI analog of the
// browser's local storage.
type TokenFile struct {
	Path string
}

func DefaultTokenFile() *TokenFile {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &TokenFile{Path: filepath.Join(home, ".shopctl_token")}
}

func (t *TokenFile) Load() string {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (t *TokenFile) Save(token string) error {
	return os.WriteFile(t.Path, []byte(token), 0o600)
}

func (t *TokenFile) Clear() error {
	err := os.Remove(t.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
