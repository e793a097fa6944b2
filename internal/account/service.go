// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

/*
Package account implements the user profile surface of the dashboard.

It covers profile retrieval for the logged-in user and for other members,
plus nickname editing with a two-rule privilege model: everyone edits their
own nickname, privileged accounts edit anyone's.

The package works on the same account records as the auth core and reuses
its repository contract; it owns no storage of its own.
*/
package account

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/clanboard/api/internal/auth"
	"github.com/clanboard/api/internal/platform/apperr"
	"github.com/clanboard/api/internal/platform/sec"
)

// # Service

// Service implements profile use cases on top of the account repository.
type Service struct {
	users  auth.UserRepository
	logger *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(users auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

/*
GetProfile returns the profile of the given account.

Parameters:
  - context: context.Context
  - qqid: int64

Returns:
  - *auth.User: Hydrated profile (secret fields never serialize)
  - error: UserNotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, qqid int64) (*auth.User, error) {
	user, err := service.users.FindByID(context, qqid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.UserNotFound("没有此用户", "")
	}
	return user, nil
}

/*
UpdateNickname changes the display nickname of an account.

Description: Self-edits are always allowed; editing someone else requires
the privileged tier. Nicknames are NFC-normalized so visually identical
strings compare equal regardless of the input method that produced them.

Parameters:
  - context: context.Context
  - actor: *sec.Identity (the logged-in editor)
  - qqid: int64 (the account being edited)
  - nickname: string

Returns:
  - error: Forbidden, UserNotFound or storage failures
*/
func (service *Service) UpdateNickname(context context.Context, actor *sec.Identity, qqid int64, nickname string) error {
	if actor.QQID != qqid && !actor.Authority.Privileged() {
		return apperr.Forbidden("权限不足")
	}

	user, err := service.users.FindByID(context, qqid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.UserNotFound("用户不存在", "")
	}

	user.Nickname = norm.NFC.String(strings.TrimSpace(nickname))
	if err := service.users.Save(context, user); err != nil {
		return err
	}

	service.logger.Info("nickname updated",
		slog.Int64("qqid", qqid),
		slog.Int64("editor", actor.QQID),
	)

	return nil
}
