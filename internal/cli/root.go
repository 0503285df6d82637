package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
)

// App holds the use cases and terminal streams the commands run against.
type App struct {
	Conversations conversation.UseCase
	Tasks         task.UseCase
	Scope         model.Scope

	In  io.Reader
	Out io.Writer

	// IsInteractive reports whether In is a terminal; prompts are only
	// printed when it is.
	IsInteractive func() bool

	// CalendarCredentialsPath and CalendarTokenPath feed calendar-auth.
	CalendarCredentialsPath string
	CalendarTokenPath       string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "taskchat" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskchat",
		Short:         "Register tasks by chatting in Japanese",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetContext(context.Background())
	root.PersistentFlags().StringVarP(&app.Scope.UserID, "user", "u", app.Scope.UserID, "user the tasks belong to")

	root.AddCommand(
		newChatCmd(app),
		newTasksCmd(app),
		newCalendarAuthCmd(app),
	)

	return root
}
