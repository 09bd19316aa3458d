package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/flowdo/internal/app"
	"github.com/five82/flowdo/internal/state"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the flowdo command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "flowdo",
		Short: "flowdo - Getting Things Done from the terminal",
		Long: `flowdo is a GTD task client. Run it without arguments for the full-screen
interface, or use the sub-commands to script your inbox.

Edits apply locally at once and are rolled back if the server rejects them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{ConfigPath: flags.configPath})
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default ~/.config/flowdo/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Mirror log output to stderr")

	root.AddCommand(
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newListCmd(flags),
		newAddCmd(flags),
		newDoneCmd(flags),
		newRemoveCmd(flags),
		newMoveCmd(flags),
		newEditCmd(flags),
		newProjectsCmd(flags),
		newContextsCmd(flags),
		newAskCmd(flags),
		newUploadCmd(flags),
		newLogsCmd(flags),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// bootstrap wires the services for a one-shot command.
func (f *rootFlags) bootstrap(cmd *cobra.Command) (*app.Env, error) {
	opts := app.Options{ConfigPath: f.configPath}
	if f.verbose {
		opts.LogMirror = cmd.ErrOrStderr()
	}
	return app.Bootstrap(opts)
}

// synced bootstraps and loads the user's data so store operations can find
// the records they act on.
func (f *rootFlags) synced(cmd *cobra.Command) (*app.Env, error) {
	env, err := f.bootstrap(cmd)
	if err != nil {
		return nil, err
	}
	if err := env.Sync(cmd.Context()); err != nil {
		_ = env.Close()
		return nil, explain(err)
	}
	return env, nil
}

// explain adds the next step to errors a user can act on.
func explain(err error) error {
	if errors.Is(err, state.ErrNotReady) {
		return fmt.Errorf("%w: run `flowdo login` (and verify your email) first", err)
	}
	return err
}
