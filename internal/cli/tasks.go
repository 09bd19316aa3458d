package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/flowdo/internal/api"
	"github.com/five82/flowdo/internal/app"
	"github.com/five82/flowdo/internal/state"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, _ := cmd.Flags().GetString("view")
			projectRef, _ := cmd.Flags().GetString("project")
			contextRef, _ := cmd.Flags().GetString("context")

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			s := env.Store.Get()
			now := time.Now()
			var tasks []api.Task
			switch {
			case projectRef != "":
				p, err := findProject(s, projectRef)
				if err != nil {
					return err
				}
				tasks = state.TasksByProject(s, p.ID)
			case contextRef != "":
				c, err := findContext(s, contextRef)
				if err != nil {
					return err
				}
				tasks = state.TasksByContext(s, c.ID)
			default:
				tasks, err = tasksForView(s, view, now)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			if view == "completed" && projectRef == "" && contextRef == "" {
				printGroups(out, s, []state.Group{{Label: "Completed", Tasks: tasks}})
				return nil
			}
			printGroups(out, s, state.GroupByDueDate(tasks, now))
			return nil
		},
	}
	cmd.Flags().String("view", "inbox", "Which tasks: inbox, today, overdue, completed or all")
	cmd.Flags().String("project", "", "Only tasks in this project (ID, prefix or name)")
	cmd.Flags().String("context", "", "Only tasks in this context (ID, prefix or name)")
	return cmd
}

func tasksForView(s state.State, view string, now time.Time) ([]api.Task, error) {
	switch view {
	case "inbox":
		return state.InboxTasks(s), nil
	case "today":
		return state.TodayTasks(s, now), nil
	case "overdue":
		return state.OverdueTasks(s, now), nil
	case "completed":
		return state.CompletedTasks(s), nil
	case "all":
		var active []api.Task
		for _, t := range s.Tasks {
			if t.Active() {
				active = append(active, t)
			}
		}
		state.SortTasks(active)
		return active, nil
	default:
		return nil, fmt.Errorf("unknown view %q: want inbox, today, overdue, completed or all", view)
	}
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task. Without --project or --context it lands in the inbox.

Unknown project and context names are created on the fly.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			dueFlag, _ := cmd.Flags().GetString("due")
			priority, _ := cmd.Flags().GetInt("priority")
			category, _ := cmd.Flags().GetString("category")
			projectRef, _ := cmd.Flags().GetString("project")
			contextRef, _ := cmd.Flags().GetString("context")

			due, err := parseDue(dueFlag, time.Now())
			if err != nil {
				return err
			}
			if err := validPriority(priority); err != nil {
				return err
			}

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			in := api.TaskInput{
				Title:       strings.Join(args, " "),
				Description: description,
				DueDate:     due,
				Priority:    priority,
				Category:    category,
			}
			if projectRef != "" {
				p, err := projectOrCreate(cmd, env, projectRef)
				if err != nil {
					return err
				}
				in.ProjectID = api.Ref(p.ID)
			}
			if contextRef != "" {
				c, err := contextOrCreate(cmd, env, contextRef)
				if err != nil {
					return err
				}
				in.NextActionID = api.Ref(c.ID)
			}

			task, err := env.Store.AddTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", taskLine(env.Store.Get(), task))
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().String("due", "", "Due date: today, tomorrow or YYYY-MM-DD")
	cmd.Flags().IntP("priority", "p", 3, "Priority, 1 (highest) to 4")
	cmd.Flags().String("category", api.DefaultCategory, "Task category")
	cmd.Flags().String("project", "", "Project ID or name")
	cmd.Flags().String("context", "", "Context ID or name")
	return cmd
}

// projectOrCreate resolves ref to a project, creating one named ref when
// nothing matches.
func projectOrCreate(cmd *cobra.Command, env *app.Env, ref string) (api.Project, error) {
	p, err := findProject(env.Store.Get(), ref)
	if err == nil {
		return p, nil
	}
	if !isNotFound(err) {
		return api.Project{}, err
	}
	p, err = env.Store.AddProject(cmd.Context(), ref, "")
	if err != nil {
		return api.Project{}, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s  %s\n", p.ID, p.Name)
	return p, nil
}

// contextOrCreate resolves ref to a context, creating one named ref when
// nothing matches.
func contextOrCreate(cmd *cobra.Command, env *app.Env, ref string) (api.NextAction, error) {
	c, err := findContext(env.Store.Get(), ref)
	if err == nil {
		return c, nil
	}
	if !isNotFound(err) {
		return api.NextAction{}, err
	}
	c, created, err := env.Store.AddContext(cmd.Context(), ref)
	if err != nil {
		return api.NextAction{}, err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created context %s  %s\n", c.ID, c.ContextName)
	}
	return c, nil
}

func newDoneCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark tasks complete",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reopen, _ := cmd.Flags().GetBool("reopen")

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			for _, ref := range args {
				task, err := findTask(env.Store.Get(), ref)
				if err != nil {
					return err
				}
				if task.Completed != reopen {
					fmt.Fprintf(out, "Unchanged %s\n", taskLine(env.Store.Get(), task))
					continue
				}
				saved, err := env.Store.ToggleComplete(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				verb := "Completed"
				if reopen {
					verb = "Reopened"
				}
				fmt.Fprintf(out, "%s %s\n", verb, taskLine(env.Store.Get(), saved))
			}
			return nil
		},
	}
	cmd.Flags().Bool("reopen", false, "Mark the tasks not done instead")
	return cmd
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			for _, ref := range args {
				task, err := findTask(env.Store.Get(), ref)
				if err != nil {
					return err
				}
				if err := env.Store.DeleteTask(cmd.Context(), task.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", task.ID, task.Title)
			}
			return nil
		},
	}
}

func newMoveCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "File a task under a project or context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectRef, _ := cmd.Flags().GetString("project")
			contextRef, _ := cmd.Flags().GetString("context")

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := findTask(env.Store.Get(), args[0])
			if err != nil {
				return err
			}

			var (
				kind   state.MoveKind
				target string
			)
			if projectRef != "" {
				p, err := projectOrCreate(cmd, env, projectRef)
				if err != nil {
					return err
				}
				kind, target = state.MoveToProject, p.ID
			} else {
				c, err := contextOrCreate(cmd, env, contextRef)
				if err != nil {
					return err
				}
				kind, target = state.MoveToNext, c.ID
			}

			moved, err := env.Store.MoveTask(cmd.Context(), task.ID, kind, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s\n", taskLine(env.Store.Get(), moved))
			return nil
		},
	}
	cmd.Flags().String("project", "", "Target project ID or name")
	cmd.Flags().String("context", "", "Target context ID or name")
	cmd.MarkFlagsMutuallyExclusive("project", "context")
	cmd.MarkFlagsOneRequired("project", "context")
	return cmd
}

func newEditCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if !fs.Changed("title") && !fs.Changed("description") && !fs.Changed("due") &&
				!fs.Changed("priority") && !fs.Changed("category") {
				return fmt.Errorf("nothing to change: pass --title, --description, --due, --priority or --category")
			}

			env, err := flags.synced(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			task, err := findTask(env.Store.Get(), args[0])
			if err != nil {
				return err
			}
			if fs.Changed("title") {
				title, _ := fs.GetString("title")
				if strings.TrimSpace(title) == "" {
					return fmt.Errorf("edit task: %w", state.ErrEmptyName)
				}
				task.Title = strings.TrimSpace(title)
			}
			if fs.Changed("description") {
				task.Description, _ = fs.GetString("description")
			}
			if fs.Changed("due") {
				raw, _ := fs.GetString("due")
				if task.DueDate, err = parseDue(raw, time.Now()); err != nil {
					return err
				}
			}
			if fs.Changed("priority") {
				task.Priority, _ = fs.GetInt("priority")
				if err := validPriority(task.Priority); err != nil {
					return err
				}
			}
			if fs.Changed("category") {
				task.Category, _ = fs.GetString("category")
			}

			saved, err := env.Store.UpdateTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", taskLine(env.Store.Get(), saved))
			return nil
		},
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().String("due", "", "New due date: today, tomorrow, none or YYYY-MM-DD")
	cmd.Flags().IntP("priority", "p", 3, "New priority, 1 (highest) to 4")
	cmd.Flags().String("category", "", "New category")
	return cmd
}
