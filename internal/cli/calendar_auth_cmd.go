package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"task-intake-assistant/pkg/gcalendar"
)

func newCalendarAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar-auth",
		Short: "Authorize Google Calendar access for installed-app credentials",
		Long: "Opens the Google consent flow for the credentials at google_calendar.credentials_path " +
			"and saves the token to google_calendar.token_path. Service account keys need no authorization.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.CalendarCredentialsPath == "" {
				return errors.New("google_calendar.credentials_path is not configured")
			}
			data, err := os.ReadFile(app.CalendarCredentialsPath)
			if err != nil {
				return fmt.Errorf("read credentials: %w", err)
			}
			auth, err := gcalendar.NewInstalledAppAuth(data)
			if err != nil {
				return err
			}

			tokenPath := app.CalendarTokenPath
			if tokenPath == "" {
				tokenPath = gcalendar.DefaultTokenPath
			}

			fmt.Fprintln(app.Out, "1. ブラウザで次のURLを開き、Googleアカウントでログインしてください:")
			fmt.Fprintln(app.Out)
			fmt.Fprintln(app.Out, auth.AuthCodeURL("taskchat"))
			fmt.Fprintln(app.Out)
			fmt.Fprint(app.Out, "2. 表示された認可コードを貼り付けてEnter: ")

			code, err := bufio.NewReader(app.In).ReadString('\n')
			if err != nil && code == "" {
				return fmt.Errorf("read authorization code: %w", err)
			}
			if err := auth.Exchange(cmd.Context(), strings.TrimSpace(code), tokenPath); err != nil {
				return err
			}

			fmt.Fprintln(app.Out)
			fmt.Fprintln(app.Out, styleSuccess.Render("トークンを保存しました: "+tokenPath))
			return nil
		},
	}
	return cmd
}
