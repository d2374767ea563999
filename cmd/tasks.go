package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

var (
	taskDate    string
	taskProject string
	taskMinutes int64
	taskDesc    string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage timesheet tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks for a date",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a task",
	Args:  cobra.NoArgs,
	RunE:  runTasksAdd,
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a logged task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksUpdate,
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a logged task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDelete,
}

func init() {
	for _, c := range []*cobra.Command{tasksListCmd, tasksAddCmd, tasksUpdateCmd} {
		c.Flags().StringVar(&taskDate, "date", "", "Date (YYYY-MM-DD, default today)")
	}
	for _, c := range []*cobra.Command{tasksAddCmd, tasksUpdateCmd} {
		c.Flags().StringVar(&taskProject, "project", "", "Project id")
		c.Flags().Int64Var(&taskMinutes, "minutes", 0, "Time spent in minutes")
		c.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	}
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksUpdateCmd)
	tasksCmd.AddCommand(tasksDeleteCmd)
}

// resolveTaskDate validates --date, defaulting to today.
func resolveTaskDate(a *app) (string, error) {
	if taskDate == "" {
		return timecalc.DateKey(a.now()), nil
	}
	if _, err := timecalc.ParseDate(taskDate, a.loc); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", taskDate)
	}
	return taskDate, nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	date, err := resolveTaskDate(a)
	if err != nil {
		return err
	}

	tasks, err := a.sheet.TasksForDate(cmd.Context(), date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(tasks) == 0 {
		fmt.Printf("No tasks logged on %s.\n", date)
		return nil
	}
	for _, t := range tasks {
		desc := ""
		if t.Description != nil {
			desc = "  " + *t.Description
		}
		fmt.Printf("%s  %s%s (%s)\n", t.ID, t.ProjectID, desc,
			timecalc.FormatDuration(t.TimeSpentMinutes*60))
	}
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	date, err := resolveTaskDate(a)
	if err != nil {
		return err
	}
	if taskProject == "" {
		return fmt.Errorf("--project is required")
	}
	if taskMinutes <= 0 {
		return fmt.Errorf("--minutes must be positive")
	}

	task := model.Task{
		Date:             date,
		ProjectID:        taskProject,
		TimeSpentMinutes: taskMinutes,
	}
	if taskDesc != "" {
		task.Description = &taskDesc
	}

	if err := a.sheet.AddTasks(cmd.Context(), []model.Task{task}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Logged %s on %s for project %s.\n",
		timecalc.FormatDuration(taskMinutes*60), date, taskProject)
	return nil
}

func runTasksUpdate(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	date, err := resolveTaskDate(a)
	if err != nil {
		return err
	}
	if taskMinutes <= 0 {
		return fmt.Errorf("--minutes must be positive")
	}

	task := model.Task{
		ID:               args[0],
		Date:             date,
		ProjectID:        taskProject,
		TimeSpentMinutes: taskMinutes,
	}
	if taskDesc != "" {
		task.Description = &taskDesc
	}

	if err := a.sheet.UpdateTask(cmd.Context(), task); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Updated task %s.\n", task.ID)
	return nil
}

func runTasksDelete(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	if err := a.sheet.DeleteTask(cmd.Context(), args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Deleted task %s.\n", args[0])
	return nil
}
