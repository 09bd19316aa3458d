// Package config loads the flowdo client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/flowdo/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Environment variables override whatever the file said
//
// # Default Values
//
//   - API base URL: http://localhost:4000
//   - Request timeout: 15s
//   - Log file: ~/.local/state/flowdo/flowdo.log
//   - Session file: ~/.config/flowdo/session.toml
//   - Preferences: next to the session file (prefs.toml)
//
// # TOML Format
//
//	api_base_url = "https://gtd.example.com"
//	request_timeout = "20s"
//	log_file = "~/.local/state/flowdo/flowdo.log"
//	session_file = "~/.config/flowdo/session.toml"
//
//	[cloudinary]
//	cloud_name = "demo"
//	upload_preset = "mobile"
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Environment
//
//   - FLOWDO_API_BASE_URL overrides api_base_url
//   - CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET override the
//     [cloudinary] table
//
// Missing config files are NOT an error. Malformed TOML or an unparseable
// request_timeout is.
package config
