package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	telegramBaseURL = "https://api.telegram.org"

	defaultPostTimeout = 10 * time.Second
	maxErrorBody       = 4 * 1024
)

// TelegramBot доставляет алерты через Telegram Bot API.
//
// Реализует вызов sendMessage: chat_id, text и parse_mode фиксируются
// при создании бота, меняется только текст сообщения.
type TelegramBot struct {
	token     string
	chatID    string
	parseMode string
	baseURL   string
	client    *http.Client
}

// NewTelegramBot создаёт TelegramBot.
// parseMode — формат текста ("MarkdownV2", "HTML" или "" для plain text).
func NewTelegramBot(token, chatID, parseMode string) *TelegramBot {
	return &TelegramBot{
		token:     token,
		chatID:    chatID,
		parseMode: parseMode,
		baseURL:   telegramBaseURL,
		client: &http.Client{
			Timeout: defaultPostTimeout,
		},
	}
}

// sendMessageRequest — тело запроса sendMessage.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// sendMessageResponse — ответ Bot API.
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Post отправляет текст в чат оператора.
func (b *TelegramBot) Post(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    b.chatID,
		Text:      text,
		ParseMode: b.parseMode,
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", b.baseURL, b.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var apiResp sendMessageResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("%w: status %d, unparsable body", ErrPostFailed, resp.StatusCode)
	}
	if !apiResp.OK {
		return fmt.Errorf("%w: status %d: %s", ErrPostFailed, resp.StatusCode, apiResp.Description)
	}

	return nil
}
