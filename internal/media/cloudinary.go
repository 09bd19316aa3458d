// Package media uploads images to Cloudinary using an unsigned upload preset.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the cloud name or preset is missing.
var ErrNotConfigured = errors.New("cloudinary upload is not configured")

const (
	endpointTemplate = "https://api.cloudinary.com/v1_1/%s/image/upload"
	uploadTimeout    = 60 * time.Second
)

// Uploader posts images to one Cloudinary cloud.
type Uploader struct {
	endpoint string
	preset   string
	http     *http.Client
}

// NewUploader returns an uploader for cloudName using the unsigned preset.
func NewUploader(cloudName, preset string) (*Uploader, error) {
	cloudName = strings.TrimSpace(cloudName)
	preset = strings.TrimSpace(preset)
	if cloudName == "" || preset == "" {
		return nil, ErrNotConfigured
	}
	return &Uploader{
		endpoint: fmt.Sprintf(endpointTemplate, cloudName),
		preset:   preset,
		http:     &http.Client{Timeout: uploadTimeout},
	}, nil
}

// UploadFile uploads the image at path and returns its secure URL.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	return u.Upload(ctx, filepath.Base(path), f)
}

// Upload streams r as a multipart "file" field and returns the secure URL
// reported by Cloudinary.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload image: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.SecureURL == "" {
		return "", errors.New("upload image: response has no secure_url")
	}
	return payload.SecureURL, nil
}
