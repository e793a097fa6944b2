// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// # Outbound Messaging

// Messenger delivers messages to users through the chat platform.
type Messenger interface {
	// SendPrivateMessage delivers a private message to the given account.
	SendPrivateMessage(ctx context.Context, qqid int64, message string) error
}

// OneBotClient implements [Messenger] against an OneBot-compatible HTTP
// API (go-cqhttp and friends).
type OneBotClient struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
}

// NewOneBotClient constructs a client for the given API endpoint. The
// access token may be empty when the API runs without authentication.
func NewOneBotClient(apiURL, accessToken string) *OneBotClient {
	return &OneBotClient{
		apiURL:      apiURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type privateMessageRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

/*
SendPrivateMessage calls the send_private_msg action.

Parameters:
  - ctx: context.Context
  - qqid: int64
  - message: string

Returns:
  - error: Transport failures or non-2xx API responses
*/
func (client *OneBotClient) SendPrivateMessage(ctx context.Context, qqid int64, message string) error {
	payload, err := json.Marshal(privateMessageRequest{UserID: qqid, Message: message})
	if err != nil {
		return fmt.Errorf("onebot_client_marshal_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		client.apiURL+"/send_private_msg", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("onebot_client_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if client.accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+client.accessToken)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("onebot_client_send_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("onebot_client_send_failed: unexpected status %d", response.StatusCode)
	}

	return nil
}
