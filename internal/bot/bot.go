// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package bot implements the chat side of the login flow.

It receives OneBot-compatible message events over a webhook, matches the
login command, and delivers freshly minted login links back to the user in
a private chat. The link is the only channel through which login codes ever
leave the system.

Architecture:

  - Service: Command matching and reply composition.
  - Client: Outbound OneBot HTTP API calls (active replies).
  - Handler: The inbound webhook with quick-reply responses.
*/
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clanboard/api/internal/auth"
	"github.com/clanboard/api/internal/platform/config"
)

// # Events

// Sender is the message author block of an inbound event.
type Sender struct {
	Nickname string `json:"nickname"`
}

// Event is the subset of an OneBot message event the login flow needs.
type Event struct {
	PostType    string `json:"post_type"`
	MessageType string `json:"message_type"` // "private" or "group"
	UserID      int64  `json:"user_id"`
	RawMessage  string `json:"raw_message"`
	Sender      Sender `json:"sender"`
}

// Reply is the outcome of handling one event.
type Reply struct {
	// Message is the text to send back, empty when the event was ignored.
	Message string

	// Block indicates the command was consumed and no other plugin should
	// see the event.
	Block bool
}

// # Service

// Service matches chat commands and drives the auth core.
type Service struct {
	authService   *auth.Service
	messenger     Messenger // nil when no outbound API is configured
	configuration *config.Config
	logger        *slog.Logger
}

// NewService constructs a new bot [Service]. The messenger may be nil, in
// which case replies go out solely through webhook quick replies.
func NewService(authService *auth.Service, messenger Messenger, configuration *config.Config, logger *slog.Logger) *Service {
	return &Service{
		authService:   authService,
		messenger:     messenger,
		configuration: configuration,
		logger:        logger,
	}
}

// matchLogin reports whether the message invokes the login command. Both
// the correct spelling and the common homophone typo are accepted. Only
// the first space-separated token is considered.
func (service *Service) matchLogin(message string) bool {
	command := strings.TrimSpace(message)

	if prefix := service.configuration.CommandPrefix; prefix != "" {
		if !strings.HasPrefix(command, prefix) {
			return false
		}
		command = command[len(prefix):]
	}

	command = strings.SplitN(command, " ", 2)[0]
	return command == "登录" || command == "登陆"
}

/*
HandleEvent processes one inbound message event.

Description: Non-message events and non-matching messages are ignored. The
login command is refused outside private chat (codes must never surface in
a group). A private match issues a fresh code and replies with the login
link plus a validity hint.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - Reply: The reply to deliver, zero-valued when the event was ignored
  - error: Issuance failures
*/
func (service *Service) HandleEvent(context context.Context, event *Event) (Reply, error) {
	if event.PostType != "message" || !service.matchLogin(event.RawMessage) {
		return Reply{}, nil
	}

	if event.MessageType != "private" {
		return Reply{Message: "请私聊使用", Block: true}, nil
	}

	user, code, err := service.authService.IssueLoginCode(context, event.UserID, event.Sender.Nickname)
	if err != nil {
		return Reply{}, err
	}

	link := service.authService.LoginLink(user.QQID, code)
	service.logger.Info("login link issued", slog.Int64("qqid", user.QQID))

	// The trailing "#" keeps chat clients from swallowing the query string
	// when they linkify the URL.
	message := link + "#\n请在一分钟内点击"

	// Prefer active delivery through the API when configured; quick replies
	// stay as the fallback so the link still reaches the user.
	if service.messenger != nil {
		if err := service.messenger.SendPrivateMessage(context, event.UserID, message); err == nil {
			return Reply{Block: true}, nil
		}
		service.logger.Warn("active delivery failed, using quick reply",
			slog.Int64("qqid", event.UserID))
	}

	return Reply{Message: message, Block: true}, nil
}
