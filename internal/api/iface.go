package api

import "context"

// ChatAPI defines the backend calls the client makes.
// *Client satisfies this interface. TUI and tests can use mock implementations.
type ChatAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	SendMessage(ctx context.Context, conversationID, text string) (*ChatReply, error)
}

var _ ChatAPI = (*Client)(nil)
