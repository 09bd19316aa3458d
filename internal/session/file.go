package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/flowdo/internal/config"
)

type tokenFile struct {
	Token string `toml:"token"`
}

// LoadToken reads a persisted token. A missing file yields an empty token.
func LoadToken(path string) (string, error) {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read session: %w", err)
	}
	var f tokenFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("parse session: %w", err)
	}
	return strings.TrimSpace(f.Token), nil
}

// SaveToken persists token with owner-only permissions.
func SaveToken(path, token string) error {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(tokenFile{Token: strings.TrimSpace(token)})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// RemoveToken deletes the persisted token. Missing files are not an error.
func RemoveToken(path string) error {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
