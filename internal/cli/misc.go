package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/config"
	"github.com/five82/flowdo/internal/logtail"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the assistant",
		Long: `Send a prompt to the assistant and print its reply.

The assistant may change tasks on the server; run ls afterwards to see them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			reply, err := env.Client.Assist(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("%s: %w", api.FriendlyMessage(err), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func newUploadCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			uploader, err := env.Uploader()
			if err != nil {
				return err
			}
			url, err := uploader.UploadFile(cmd.Context(), args[0])
			if err != nil {
				env.Logger.Printf("upload %s failed: %v", args[0], err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the flowdo log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, _ := cmd.Flags().GetInt("lines")
			grep, _ := cmd.Flags().GetString("grep")

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			entries, err := logtail.Read(cfg.LogPath, lines, logtail.Contains(grep))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", cfg.LogPath)
				return nil
			}
			for _, line := range entries {
				fmt.Fprintln(out, colorLogLine(line))
			}
			return nil
		},
	}
	cmd.Flags().IntP("lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().String("grep", "", "Only lines containing this text (case-insensitive)")
	return cmd
}
