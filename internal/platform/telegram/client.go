package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultAPIURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering the methods the bot
// calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     log.With().Str("component", "telegram").Logger(),
	}
}

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
	// RetryAfter is the flood-control wait in seconds, zero when absent.
	RetryAfter int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type tgResponse[T any] struct {
	Ok          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Result      T      `json:"result"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (*Message, error) {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	if err := applyOptions(params, opts); err != nil {
		return nil, err
	}
	var msg Message
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, opts *SendOptions) error {
	params := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.Itoa(messageID)},
		"text":       {text},
	}
	if err := applyOptions(params, opts); err != nil {
		return err
	}
	var ignored json.RawMessage
	return c.call(ctx, "editMessageText", params, &ignored)
}

func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *InlineKeyboardMarkup) error {
	params := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.Itoa(messageID)},
	}
	if err := applyOptions(params, &SendOptions{ReplyMarkup: markup}); err != nil {
		return err
	}
	var ignored json.RawMessage
	return c.call(ctx, "editMessageReplyMarkup", params, &ignored)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	var ok bool
	return c.call(ctx, "answerCallbackQuery", url.Values{"callback_query_id": {callbackID}}, &ok)
}

// SendDocument uploads content as a file attachment named filename.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendDocument"), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	var ignored json.RawMessage
	return c.do(req, "sendDocument", &ignored)
}

// SetWebhook registers url with the secret token echoed back in the
// X-Telegram-Bot-Api-Secret-Token header of each delivery.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string, allowedUpdates []string) error {
	allowed, err := json.Marshal(allowedUpdates)
	if err != nil {
		return err
	}
	params := url.Values{
		"url":             {webhookURL},
		"secret_token":    {secret},
		"allowed_updates": {string(allowed)},
	}
	var ok bool
	return c.call(ctx, "setWebhook", params, &ok)
}

func (c *Client) GetMe(ctx context.Context) (*BotInfo, error) {
	var me BotInfo
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func applyOptions(params url.Values, opts *SendOptions) error {
	if opts == nil {
		return nil
	}
	if opts.ParseMode != "" {
		params.Set("parse_mode", opts.ParseMode)
	}
	if opts.ReplyMarkup != nil {
		b, err := json.Marshal(opts.ReplyMarkup)
		if err != nil {
			return fmt.Errorf("marshal reply_markup: %w", err)
		}
		params.Set("reply_markup", string(b))
	}
	return nil
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) call(ctx context.Context, method string, data url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, method, out)
}

func (c *Client) do(req *http.Request, method string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Msg("Telegram request failed")
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var result tgResponse[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram %s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !result.Ok {
		apiErr := &APIError{Method: method, Code: result.ErrorCode, Description: result.Description}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return apiErr
	}
	if out == nil || len(result.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}
