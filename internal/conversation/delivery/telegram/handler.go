package telegram

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/model"
	pkgErrors "task-intake-assistant/pkg/errors"
	pkgResponse "task-intake-assistant/pkg/response"
	pkgTelegram "task-intake-assistant/pkg/telegram"
)

const (
	welcomeText = "こんにちは！タスク登録アシスタントです。\n\n" +
		"やりたいことをそのまま送ってください。足りない項目はボタンで質問します。\n" +
		"例: 「明日の14時に歯医者」「金曜までに請求書を送る」"
	helpText = "使い方:\n" +
		"・タスクを文章で送ると内容を読み取ります\n" +
		"・質問にはボタンか文章で答えてください\n" +
		"・「このまま登録」で任意項目を飛ばして登録します\n" +
		"・/cancel で入力中のタスクを破棄します\n" +
		"・/new で最初からやり直します"
)

// incoming is one user action, either a text message or a button press.
type incoming struct {
	chatID int64
	from   *pkgTelegram.User
	text   string
}

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It acknowledges immediately and runs the turn in the background, since
// an LLM call can outlast Telegram's webhook timeout.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.secret != "" {
		got := c.GetHeader(pkgTelegram.SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			pkgResponse.Unauthorized(c)
			return
		}
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, pkgErrors.InvalidInput("invalid update: "+err.Error()))
		return
	}

	in, ok := h.toIncoming(ctx, update)
	if !ok {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	go func() {
		// The request context is cancelled once the response is written.
		bgCtx := context.Background()
		if err := h.process(bgCtx, in); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: chat=%d: %v", in.chatID, err)
			_ = h.bot.SendMessage(in.chatID, errorMessage(err))
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) toIncoming(ctx context.Context, update pkgTelegram.Update) (incoming, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if err := h.bot.AnswerCallbackQuery(cq.ID); err != nil {
			h.l.Warnf(ctx, "telegram handler: answerCallbackQuery: %v", err)
		}
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil || cq.Data == "" {
			return incoming{}, false
		}
		return incoming{chatID: cq.Message.Chat.ID, from: cq.From, text: cq.Data}, true
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return incoming{}, false
	}
	return incoming{chatID: msg.Chat.ID, from: msg.From, text: strings.TrimSpace(msg.Text)}, true
}

func (h *handler) process(ctx context.Context, in incoming) error {
	sc := model.Scope{
		UserID:   fmt.Sprintf("telegram_%d", in.from.ID),
		Username: in.from.Username,
		Source:   model.SourceTelegram,
	}

	switch in.text {
	case "/start":
		h.chats.Remove(in.chatID)
		return h.bot.SendMessage(in.chatID, welcomeText)
	case "/help":
		return h.bot.SendMessage(in.chatID, helpText)
	case "/new":
		h.chats.Remove(in.chatID)
		snap, err := h.session(ctx, sc, in.chatID)
		if err != nil {
			return err
		}
		return h.render(in.chatID, snap.Messages)
	case "/cancel":
		return h.cancel(ctx, sc, in.chatID)
	}

	out, err := h.turn(ctx, sc, in.chatID, in.text)
	if len(out.NewMessages) > 0 {
		if rerr := h.render(in.chatID, out.NewMessages); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		if len(out.NewMessages) > 0 {
			// The failure was already explained in the transcript.
			h.l.Warnf(ctx, "telegram handler: chat=%d turn: %v", in.chatID, err)
			return nil
		}
		return err
	}
	if out.Snapshot.Phase.Terminal() {
		h.chats.Remove(in.chatID)
	}
	return nil
}

// turn sends text to the chat's session, opening a new one when the
// previous session is gone or finished.
func (h *handler) turn(ctx context.Context, sc model.Scope, chatID int64, text string) (conversation.TurnOutput, error) {
	snap, err := h.session(ctx, sc, chatID)
	if err != nil {
		return conversation.TurnOutput{}, err
	}
	out, err := h.uc.SendMessage(ctx, sc, conversation.SendMessageInput{SessionID: snap.SessionID, Text: text})
	if err == nil || !restartable(err) {
		return out, err
	}

	h.chats.Remove(chatID)
	snap, err = h.session(ctx, sc, chatID)
	if err != nil {
		return conversation.TurnOutput{}, err
	}
	return h.uc.SendMessage(ctx, sc, conversation.SendMessageInput{SessionID: snap.SessionID, Text: text})
}

func (h *handler) session(ctx context.Context, sc model.Scope, chatID int64) (conversation.Snapshot, error) {
	h.chatMu.Lock()
	defer h.chatMu.Unlock()

	if id, ok := h.chats.Get(chatID); ok {
		snap, err := h.uc.Get(ctx, sc, id)
		if err == nil && !snap.Phase.Terminal() {
			h.chats.Add(chatID, id)
			return snap, nil
		}
	}

	snap, err := h.uc.Start(ctx, sc)
	if err != nil {
		return conversation.Snapshot{}, err
	}
	h.chats.Add(chatID, snap.SessionID)
	return snap, nil
}

func (h *handler) cancel(ctx context.Context, sc model.Scope, chatID int64) error {
	id, ok := h.chats.Get(chatID)
	h.chats.Remove(chatID)
	if !ok {
		return h.bot.SendMessage(chatID, "キャンセルする入力はありません。")
	}
	snap, err := h.uc.Cancel(ctx, sc, id)
	if err != nil {
		if restartable(err) {
			return h.bot.SendMessage(chatID, "キャンセルする入力はありません。")
		}
		return err
	}
	if n := len(snap.Messages); n > 0 {
		return h.render(chatID, snap.Messages[n-1:])
	}
	return nil
}

// render sends assistant and system messages; options become inline buttons.
func (h *handler) render(chatID int64, msgs []conversation.Message) error {
	for _, m := range msgs {
		if m.Role == conversation.RoleUser {
			continue
		}
		var err error
		if len(m.Options) > 0 {
			err = h.bot.SendMessageWithKeyboard(chatID, m.Content, m.Options)
		} else {
			err = h.bot.SendMessage(chatID, m.Content)
		}
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}
