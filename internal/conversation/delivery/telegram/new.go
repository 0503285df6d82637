package telegram

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"task-intake-assistant/config"
	"task-intake-assistant/internal/conversation"
	pkgLog "task-intake-assistant/pkg/log"
	pkgTelegram "task-intake-assistant/pkg/telegram"
)

const (
	defaultChatTTL = 30 * time.Minute
	maxChats       = 10000
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Bot is the subset of the Telegram client the handler uses.
type Bot interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, options []string) error
	AnswerCallbackQuery(callbackQueryID string) error
}

type handler struct {
	l      pkgLog.Logger
	uc     conversation.UseCase
	bot    Bot
	secret string

	// chatMu guards session creation so one chat never opens two sessions.
	chatMu sync.Mutex
	chats  *expirable.LRU[int64, string]
}

// New creates a new Telegram delivery handler. Each chat is bound to one
// conversation session until it completes, is cancelled or expires.
func New(l pkgLog.Logger, uc conversation.UseCase, bot Bot, tgCfg config.TelegramConfig, convCfg config.ConversationConfig) Handler {
	ttl := convCfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultChatTTL
	}
	return &handler{
		l:      l,
		uc:     uc,
		bot:    bot,
		secret: tgCfg.SecretToken,
		chats:  expirable.NewLRU[int64, string](maxChats, nil, ttl),
	}
}

var _ Bot = (*pkgTelegram.Bot)(nil)
