package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/slot"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/pkg/datemath"
)

func newTasksCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List registered tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context(), app.Scope, task.ListInput{Status: model.TaskStatus(status)})
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(app.Out, styleDim.Render("タスクはありません。"))
				return nil
			}
			fmt.Fprint(app.Out, formatTasks(tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (inbox, scheduled, completed, archived)")

	cmd.AddCommand(
		newTaskStatusCmd(app, "done", "Mark a task completed", model.TaskStatusCompleted),
		newTaskStatusCmd(app, "archive", "Archive a task", model.TaskStatusArchived),
		newTaskScheduleCmd(app),
	)

	return cmd
}

func newTaskStatusCmd(app *App, use, short string, status model.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tasks.UpdateStatus(cmd.Context(), app.Scope, task.UpdateStatusInput{ID: args[0], Status: status})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, styleSuccess.Render(fmt.Sprintf("「%s」を%sにしました。", t.Title, statusLabel(t.Status))))
			return nil
		},
	}
}

func newTaskScheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id> <when>",
		Short: "Set when a task will be done (RFC3339, \"2026-10-16\" or \"2026-10-16T14:00\")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tasks.Schedule(cmd.Context(), app.Scope, task.ScheduleInput{ID: args[0], ScheduledAt: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, styleSuccess.Render(fmt.Sprintf("「%s」を %s に予定しました。", t.Title, formatTimestamp(t.ScheduledAt))))
			return nil
		},
	}
}

var statusLabels = map[model.TaskStatus]string{
	model.TaskStatusInbox:     "未整理",
	model.TaskStatusScheduled: "予定済み",
	model.TaskStatusCompleted: "完了",
	model.TaskStatusArchived:  "アーカイブ",
}

func statusLabel(s model.TaskStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func formatTasks(tasks []model.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			slot.CategoryLabel(t.Category),
			statusStyles[t.Status].Render(statusLabel(t.Status)),
			formatTimestamp(t.ScheduledAt),
			formatTimestamp(t.Deadline),
		})
	}
	return renderTable([]string{"ID", "タイトル", "カテゴリー", "状態", "予定", "期限"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTimestamp shows a stored zoned timestamp as JST wall time.
func formatTimestamp(s string) string {
	if s == "" {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.In(datemath.JST).Format("01/02 15:04")
}
