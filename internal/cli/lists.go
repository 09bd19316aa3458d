package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/flowdo/internal/state"
)

func newProjectsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			s := env.Store.Get()
			out := cmd.OutOrStdout()
			if len(s.Projects) == 0 {
				fmt.Fprintln(out, "No projects.")
				return nil
			}
			for _, p := range s.Projects {
				fmt.Fprintf(out, "%s  %s  %s\n", p.ID, p.Name, mutedStyle.Render(taskCount(len(state.TasksByProject(s, p.ID)))))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			p, err := env.Store.AddProject(cmd.Context(), strings.Join(args, " "), description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s  %s\n", p.ID, p.Name)
			return nil
		},
	}
	add.Flags().StringP("description", "d", "", "Project description")

	rm := &cobra.Command{
		Use:   "rm <project>",
		Short: "Delete a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			p, err := findProject(env.Store.Get(), args[0])
			if err != nil {
				return err
			}
			n := len(state.TasksByProject(env.Store.Get(), p.ID))
			if err := env.Store.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s and %s\n", p.Name, taskCount(n))
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <project> <new name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			p, err := findProject(env.Store.Get(), args[0])
			if err != nil {
				return err
			}
			p.Name = strings.TrimSpace(strings.Join(args[1:], " "))
			if p.Name == "" {
				return fmt.Errorf("rename project: %w", state.ErrEmptyName)
			}
			saved, err := env.Store.UpdateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed project %s to %s\n", saved.ID, saved.Name)
			return nil
		},
	}

	cmd.AddCommand(ls, add, rm, rename)
	return cmd
}

func newContextsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contexts",
		Aliases: []string{"context"},
		Short:   "Manage contexts (next-action lists)",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			s := env.Store.Get()
			out := cmd.OutOrStdout()
			if len(s.Contexts) == 0 {
				fmt.Fprintln(out, "No contexts.")
				return nil
			}
			for _, c := range s.Contexts {
				fmt.Fprintf(out, "%s  %s  %s\n", c.ID, c.ContextName, mutedStyle.Render(taskCount(len(state.TasksByContext(s, c.ID)))))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a context",
		Long:  "Create a context. Adding a name that already exists is a no-op.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			c, created, err := env.Store.AddContext(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "Context %s already exists (%s)\n", c.ContextName, c.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created context %s  %s\n", c.ID, c.ContextName)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <context>",
		Short: "Delete a context",
		Long:  "Delete a context. Its tasks are kept and no longer point at it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			c, err := findContext(env.Store.Get(), args[0])
			if err != nil {
				return err
			}
			if err := env.Store.DeleteContext(cmd.Context(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted context %s\n", c.ContextName)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <context> <new name>",
		Short: "Rename a context",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			c, err := findContext(env.Store.Get(), args[0])
			if err != nil {
				return err
			}
			c.ContextName = strings.TrimSpace(strings.Join(args[1:], " "))
			if c.ContextName == "" {
				return fmt.Errorf("rename context: %w", state.ErrEmptyName)
			}
			saved, err := env.Store.UpdateContext(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed context %s to %s\n", saved.ID, saved.ContextName)
			return nil
		},
	}

	cmd.AddCommand(ls, add, rm, rename)
	return cmd
}

func taskCount(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
