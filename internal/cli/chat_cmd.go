package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
	pkgErrors "task-intake-assistant/pkg/errors"
)

const chatHelp = `:q で終了、:cancel で入力中のタスクを破棄、:reset で最初からやり直します。
選択肢は番号でも答えられます。`

func newChatCmd(app *App) *cobra.Command {
	var llm extraction.LLMConfig

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Register tasks through an interactive conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), app, llm)
		},
	}

	cmd.Flags().StringVar(&llm.Provider, "provider", "", "LLM provider for this session (openai, openrouter, deepseek, anthropic, gemini)")
	cmd.Flags().StringVar(&llm.Model, "model", "", "model name for --provider")
	cmd.Flags().StringVar(&llm.APIKey, "api-key", "", "API key for --provider; the configured providers are used when empty")
	cmd.Flags().StringVar(&llm.BaseURL, "base-url", "", "override the provider endpoint")

	return cmd
}

type chatLoop struct {
	app     *App
	llm     extraction.LLMConfig
	out     io.Writer
	session string
	options []string
}

func runChat(ctx context.Context, app *App, llm extraction.LLMConfig) error {
	c := &chatLoop{app: app, llm: llm, out: app.Out}
	fmt.Fprintln(c.out, styleDim.Render(chatHelp))
	if err := c.start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(app.In)
	for {
		if app.interactive() {
			fmt.Fprint(c.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case ":q", ":quit", ":exit":
			return nil
		case ":cancel":
			err := c.lifecycle(ctx, app.Conversations.Cancel)
			if errors.Is(err, conversation.ErrSessionClosed) {
				err = c.start(ctx)
			}
			if err != nil {
				return err
			}
			continue
		case ":reset":
			if err := c.lifecycle(ctx, app.Conversations.Reset); err != nil {
				return err
			}
			continue
		}

		if err := c.send(ctx, c.pick(line)); err != nil {
			return err
		}
	}
}

// pick maps a chip number to its option text.
func (c *chatLoop) pick(line string) string {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(c.options) {
		return c.options[n-1]
	}
	return line
}

func (c *chatLoop) start(ctx context.Context) error {
	snap, err := c.app.Conversations.Start(ctx, c.app.Scope)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	c.session = snap.SessionID
	c.print(snap.Messages)
	return nil
}

func (c *chatLoop) send(ctx context.Context, text string) error {
	out, err := c.app.Conversations.SendMessage(ctx, c.app.Scope, conversation.SendMessageInput{
		SessionID: c.session,
		Text:      text,
		LLM:       c.llm,
	})
	c.print(out.NewMessages)

	switch {
	case err == nil:
	case errors.Is(err, conversation.ErrSessionClosed), errors.Is(err, conversation.ErrSessionNotFound):
		return c.start(ctx)
	case len(out.NewMessages) > 0:
		// The transcript already explains the failure.
		return nil
	default:
		fmt.Fprintln(c.out, styleError.Render(pkgErrors.As(err).UserMessage))
		return nil
	}

	if out.Snapshot.Phase.Terminal() {
		fmt.Fprintln(c.out)
		return c.start(ctx)
	}
	return nil
}

type sessionOp func(ctx context.Context, sc model.Scope, sessionID string) (conversation.Snapshot, error)

func (c *chatLoop) lifecycle(ctx context.Context, op sessionOp) error {
	snap, err := op(ctx, c.app.Scope, c.session)
	if err != nil {
		return err
	}
	if n := len(snap.Messages); n > 0 {
		c.print(snap.Messages[n-1:])
	}
	if snap.Phase.Terminal() {
		return c.start(ctx)
	}
	return nil
}

// print writes assistant and system messages; the user's own lines are
// already on screen.
func (c *chatLoop) print(msgs []conversation.Message) {
	for _, m := range msgs {
		if m.Role == conversation.RoleUser {
			continue
		}
		switch m.Kind {
		case conversation.KindWarning:
			fmt.Fprintln(c.out, styleWarning.Render("! "+m.Content))
		case conversation.KindError:
			fmt.Fprintln(c.out, styleError.Render("✗ "+m.Content))
		case conversation.KindComplete:
			fmt.Fprintln(c.out, styleSuccess.Render("✓ "+m.Content))
		case conversation.KindCancelled:
			fmt.Fprintln(c.out, styleDim.Render(m.Content))
		default:
			fmt.Fprintln(c.out, styleAssistant.Render(m.Content))
		}
		c.options = m.Options
		if len(m.Options) > 0 {
			fmt.Fprintln(c.out, numberedOptions(m.Options))
		}
	}
}
