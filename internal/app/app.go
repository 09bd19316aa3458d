package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/config"
	"github.com/five82/flowdo/internal/media"
	"github.com/five82/flowdo/internal/prefs"
	"github.com/five82/flowdo/internal/session"
	"github.com/five82/flowdo/internal/state"
	"github.com/five82/flowdo/internal/ui"
)

// Options configure how flowdo starts.
type Options struct {
	ConfigPath string
	// LogMirror, when set, receives a copy of everything written to the log
	// file.
	LogMirror io.Writer
}

// Env is the wired set of services shared by the TUI and the one-shot
// commands.
type Env struct {
	Config  config.Config
	Session *session.Session
	Client  *api.Client
	Store   *state.Store
	Prefs   prefs.Prefs
	Logger  *log.Logger

	logFile io.Closer
}

// Bootstrap loads configuration, restores the saved session and builds the
// API client and store.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logFile, err := openLog(cfg.LogPath, opts.LogMirror)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	token, err := session.LoadToken(cfg.SessionPath)
	if err != nil {
		logger.Printf("read session file: %v", err)
	}
	if err := sess.Restore(token); err != nil {
		logger.Printf("restore session: %v", err)
	}

	client, err := api.NewClient(cfg.APIBaseURL, sess, cfg.RequestTimeout)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Env{
		Config:  cfg,
		Session: sess,
		Client:  client,
		Store:   state.NewStore(client, sess, logger),
		Prefs:   prefs.Load(cfg.PrefsPath()),
		Logger:  logger,
		logFile: logFile,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// Uploader returns a Cloudinary uploader built from the configuration.
func (e *Env) Uploader() (*media.Uploader, error) {
	return media.NewUploader(e.Config.CloudinaryCloud, e.Config.CloudinaryPreset)
}

// SignIn validates token, activates it and persists it for later runs.
func (e *Env) SignIn(token string) (session.User, error) {
	if err := e.Session.SignIn(token); err != nil {
		return session.User{}, err
	}
	if err := session.SaveToken(e.Config.SessionPath, token); err != nil {
		return session.User{}, fmt.Errorf("save session: %w", err)
	}
	user, _ := e.Session.User()
	return user, nil
}

// SignOut forgets the session and empties the store.
func (e *Env) SignOut() error {
	e.Session.SignOut()
	e.Store.Clear()
	if err := session.RemoveToken(e.Config.SessionPath); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Sync runs a single refresh for one-shot commands.
func (e *Env) Sync(ctx context.Context) error {
	return e.Store.Refresh(ctx)
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// The terminal belongs to the TUI; never mirror logs onto it.
	opts.LogMirror = nil
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()
	log.SetOutput(env.Logger.Writer())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go Follow(ctx, env.Session, env.Store, env.Logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     env.Store,
		Session:   env.Session,
		Assistant: env.Client,
		Logger:    env.Logger,
		ThemeName: env.Prefs.Theme,
		StartView: env.Prefs.StartView,
		PrefsPath: env.Config.PrefsPath(),
	})
}

func openLog(path string, mirror io.Writer) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	var w io.Writer = f
	if mirror != nil {
		w = io.MultiWriter(f, mirror)
	}
	return log.New(w, "", log.LstdFlags), f, nil
}
