package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SecretTokenHeader carries the webhook secret on incoming updates.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. A non-empty
// secretToken is sent back by Telegram on every update.
func (b *Bot) SetWebhook(webhookURL, secretToken string) error {
	payload := map[string]string{"url": webhookURL}
	if secretToken != "" {
		payload["secret_token"] = secretToken
	}
	resp, err := b.post("setWebhook", payload)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode webhook response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram setWebhook failed: %s", apiResp.Description)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	return b.send(SendMessageRequest{ChatID: chatID, Text: text})
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(chatID int64, text string, parseMode string) error {
	return b.send(SendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode})
}

// SendMessageWithKeyboard sends text with one inline button per option.
// Each button's callback data is the option text itself.
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, options []string) error {
	req := SendMessageRequest{ChatID: chatID, Text: text}
	if len(options) > 0 {
		req.ReplyMarkup = NewInlineKeyboard(options, 3)
	}
	return b.send(req)
}

// AnswerCallbackQuery acknowledges a button press so the client stops its spinner.
func (b *Bot) AnswerCallbackQuery(callbackQueryID string) error {
	resp, err := b.post("answerCallbackQuery", map[string]string{"callback_query_id": callbackQueryID})
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus("answerCallbackQuery", resp)
}

func (b *Bot) send(payload SendMessageRequest) error {
	resp, err := b.post("sendMessage", payload)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus("sendMessage", resp)
}

func (b *Bot) post(method string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}
	return b.httpClient.Post(fmt.Sprintf("%s/%s", b.apiURL, method), "application/json", bytes.NewBuffer(body))
}

func checkStatus(method string, resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	return nil
}

// NewInlineKeyboard lays options out in rows of perRow buttons.
func NewInlineKeyboard(options []string, perRow int) *InlineKeyboardMarkup {
	if perRow <= 0 {
		perRow = 1
	}
	kb := &InlineKeyboardMarkup{}
	for i := 0; i < len(options); i += perRow {
		end := min(i+perRow, len(options))
		row := make([]InlineKeyboardButton, 0, end-i)
		for _, o := range options[i:end] {
			row = append(row, InlineKeyboardButton{Text: o, CallbackData: o})
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, row)
	}
	return kb
}
