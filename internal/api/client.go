package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brief-cli/internal/config"
)

// ErrUnauthorized is returned when the backend rejects the token.
var ErrUnauthorized = errors.New("unauthorized: token missing or expired")

const clientIdentifier = "brief-cli"

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	locale     string
}

func NewClient(cfg *config.Config) *Client {
	c := NewClientWithServer(cfg.Server)
	c.token = cfg.Token
	c.locale = cfg.LocaleOrDefault()
	return c
}

// NewClientWithServer returns an unauthenticated client, used for login.
func NewClientWithServer(server string) *Client {
	return &Client{
		baseURL: strings.TrimRight(server, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client", clientIdentifier)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// --- Auth ---

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error,omitempty"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, "POST", "/v1/auth/login", LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("login failed: %s", resp.Error)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login failed: no access token in response")
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// --- Chat ---

type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Locale         string `json:"locale,omitempty"`
	Client         string `json:"client,omitempty"`
}

// ChatReply is the assistant's raw reply text. Raw keeps the full response
// body for debugging.
type ChatReply struct {
	Text string
	Raw  json.RawMessage
}

// SendMessage posts one user turn and returns the assistant's reply text.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*ChatReply, error) {
	req := ChatRequest{
		ConversationID: conversationID,
		Message:        text,
		Locale:         c.locale,
		Client:         clientIdentifier,
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, "POST", "/v1/chat", req, &raw); err != nil {
		return nil, err
	}
	return &ChatReply{Text: ReplyText(raw), Raw: raw}, nil
}

// ReplyText pulls the reply out of a chat response body: the "output" field,
// then "data", then the whole body. String fields are returned as-is; other
// JSON values are returned in their encoded form.
func ReplyText(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"output", "data"} {
			v, ok := fields[key]
			if !ok || string(v) == "null" {
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				if s == "" {
					continue
				}
				return s
			}
			return string(v)
		}
	}
	return strings.TrimSpace(string(body))
}

// --- Generic JSON helper ---

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody interface{}, result interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil && method != "GET" {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, bodyReader != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if raw, ok := result.(*json.RawMessage); ok {
			*raw = append((*raw)[:0], respBody...)
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
