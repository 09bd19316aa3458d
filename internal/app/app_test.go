package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/flowdo/internal/media"
	"github.com/five82/flowdo/internal/session"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("FLOWDO_API_BASE_URL", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "")

	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.toml")
	cfg := strings.Join([]string{
		`api_base_url = "http://127.0.0.1:9"`,
		`log_file = "` + filepath.Join(dir, "logs", "flowdo.log") + `"`,
		`session_file = "` + sessionPath + `"`,
	}, "\n")
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, sessionPath
}

func testToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":            "user-1",
		"email":          "ada@example.com",
		"email_verified": true,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestBootstrap_SignedOutWithoutSessionFile(t *testing.T) {
	configPath, _ := writeConfig(t)

	var mirror bytes.Buffer
	env, err := Bootstrap(Options{ConfigPath: configPath, LogMirror: &mirror})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	if got := env.Session.Status(); got != session.StatusSignedOut {
		t.Fatalf("Status = %v, want signed out", got)
	}
	if env.Client.BaseURL() != "http://127.0.0.1:9" {
		t.Fatalf("BaseURL = %q", env.Client.BaseURL())
	}
	if _, err := os.Stat(env.Config.LogPath); err != nil {
		t.Fatalf("log file not created: %v", err)
	}

	env.Logger.Printf("hello")
	if !strings.Contains(mirror.String(), "hello") {
		t.Fatalf("mirror = %q, want it to contain the log line", mirror.String())
	}
}

func TestEnv_SignInPersistsAndSignOutClears(t *testing.T) {
	configPath, sessionPath := writeConfig(t)

	env, err := Bootstrap(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	user, err := env.SignIn(testToken(t))
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.Email != "ada@example.com" || !env.Session.Ready() {
		t.Fatalf("user = %#v ready=%v", user, env.Session.Ready())
	}

	// A fresh bootstrap picks the saved token up.
	again, err := Bootstrap(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("second Bootstrap returned error: %v", err)
	}
	defer again.Close()
	if !again.Session.Ready() {
		t.Fatalf("restored session not ready: %v", again.Session.Status())
	}

	if err := env.SignOut(); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if _, err := os.Stat(sessionPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("session file still present: %v", err)
	}
	if env.Session.Ready() {
		t.Fatal("session still ready after sign out")
	}
}

func TestEnv_SignInRejectsGarbage(t *testing.T) {
	configPath, sessionPath := writeConfig(t)
	env, err := Bootstrap(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	if _, err := env.SignIn("not-a-jwt"); err == nil {
		t.Fatal("SignIn accepted a malformed token")
	}
	if _, err := os.Stat(sessionPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("session file written for a bad token: %v", err)
	}
}

func TestEnv_UploaderNeedsConfig(t *testing.T) {
	configPath, _ := writeConfig(t)
	env, err := Bootstrap(Options{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	if _, err := env.Uploader(); !errors.Is(err, media.ErrNotConfigured) {
		t.Fatalf("Uploader error = %v, want ErrNotConfigured", err)
	}
}

func TestBootstrap_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`request_timeout = "soon"`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Bootstrap(Options{ConfigPath: path}); err == nil {
		t.Fatal("Bootstrap accepted an invalid request_timeout")
	}
}
