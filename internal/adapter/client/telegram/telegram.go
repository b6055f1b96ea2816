package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/port"
	"go.uber.org/zap"
)

const (
	pollTimeoutSec = 50
	sendTimeout    = 10 * time.Second
	pollTimeout    = 60 * time.Second
)

// Client talks to the Telegram Bot API: long-polls updates for the bot
// process and delivers outbound messages for both processes.
type Client struct {
	logger *zap.Logger
	apiURL string
	sender *http.Client
	poller *http.Client
}

func NewClient(cfg *config.Telegram, log *zap.Logger) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	return &Client{
		logger: log,
		apiURL: "https://api.telegram.org/bot" + cfg.BotToken + "/",
		sender: &http.Client{Timeout: sendTimeout},
		poller: &http.Client{Timeout: pollTimeout},
	}, nil
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type WebAppData struct {
	Data string `json:"data"`
}

type Message struct {
	MessageID  int64       `json:"message_id"`
	From       *User       `json:"from"`
	Chat       Chat        `json:"chat"`
	Text       string      `json:"text"`
	WebAppData *WebAppData `json:"web_app_data"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

// Updates long-polls getUpdates starting from offset.
func (c *Client) Updates(ctx context.Context, offset int64) ([]Update, error) {
	query := url.Values{}
	query.Set("timeout", strconv.Itoa(pollTimeoutSec))
	if offset > 0 {
		query.Set("offset", strconv.FormatInt(offset, 10))
	}

	requestStr := c.apiURL + "getUpdates?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on getUpdates request: %w", err)
	}

	resp, err := c.poller.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getUpdates request error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response %v for getUpdates", resp.StatusCode)
	}

	var result updatesResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on getUpdates decode: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("getUpdates returned not ok")
	}

	return result.Result, nil
}

// Send delivers a text message. Best effort: failures are logged and
// swallowed so a lost notification never rolls back committed state.
func (c *Client) Send(chatID int64, text string, opts *port.SendOptions) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if opts != nil {
		if opts.ParseMode != "" {
			payload["parse_mode"] = opts.ParseMode
		}
		if opts.ReplyMarkup != nil {
			markup, err := json.Marshal(opts.ReplyMarkup)
			if err != nil {
				c.logger.Error("marshal reply markup", zap.Error(err))
				return
			}
			payload["reply_markup"] = string(markup)
		}
	}

	if err := c.post("sendMessage", payload); err != nil {
		c.logger.Error("send message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// AnswerCallback acknowledges an inline button press, optionally with a
// toast text.
func (c *Client) AnswerCallback(queryID string, text string) {
	payload := map[string]any{"callback_query_id": queryID}
	if text != "" {
		payload["text"] = text
	}
	if err := c.post("answerCallbackQuery", payload); err != nil {
		c.logger.Error("answer callback query", zap.String("query", queryID), zap.Error(err))
	}
}

// EditMessageText replaces the text of an already sent message.
func (c *Client) EditMessageText(chatID int64, messageID int64, text string, parseMode string) {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	if err := c.post("editMessageText", payload); err != nil {
		c.logger.Error("edit message text", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (c *Client) post(method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	resp, err := c.sender.Post(c.apiURL+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s request error: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad response %v for %s", resp.StatusCode, method)
	}

	return nil
}
