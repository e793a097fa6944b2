// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/clanboard/api/internal/platform/apperr"
	"github.com/clanboard/api/internal/platform/config"
	"github.com/clanboard/api/internal/platform/sec"
)

// # Service

// Service implements the login lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code redemption,
// lockout, or cookie rotation logic must be reviewed carefully.
type Service struct {
	users       UserRepository
	sessions    SessionRepository
	webSessions WebSessionRepository
	flags       FlagRepository

	configuration *config.Config
	logger        *slog.Logger

	// Injected clock and entropy sources. Production wiring uses the real
	// ones; tests substitute deterministic implementations.
	now          func() int64
	randomString func(length int, alphabet string) (string, error)
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	webSessionRepo WebSessionRepository,
	flagRepo FlagRepository,
	configuration *config.Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:         userRepo,
		sessions:      sessionRepo,
		webSessions:   webSessionRepo,
		flags:         flagRepo,
		configuration: configuration,
		logger:        logger,
		now:           func() int64 { return time.Now().Unix() },
		randomString:  sec.RandomString,
	}
}

// # Advice Texts

// Advice strings shown next to login failures. They reference the bot
// command including any configured prefix, matching what users actually
// have to type in chat.

func (service *Service) loginCommand() string {
	return service.configuration.CommandPrefix + "登录"
}

func (service *Service) adviceGetLink() string {
	return fmt.Sprintf("请私聊机器人“%s”获取登录地址", service.loginCommand())
}

func (service *Service) adviceNewLink() string {
	return fmt.Sprintf("私聊机器人“%s”获取新登录地址", service.loginCommand())
}

func (service *Service) adviceSetPassword() string {
	return fmt.Sprintf("请私聊机器人“%s”后，再次选择[修改密码]修改", service.loginCommand())
}

func (service *Service) adviceForgotPassword() string {
	return fmt.Sprintf("如果忘记密码，请私聊机器人“%s”后，再次选择[修改密码]修改", service.loginCommand())
}

func (service *Service) adviceRelogin() string {
	return fmt.Sprintf("请私聊机器人“%s”或重新登录", service.loginCommand())
}

func (service *Service) adviceJoinFirst() string {
	return fmt.Sprintf("请先加入一个公会 或 私聊机器人“%s”", service.loginCommand())
}

// # Login Code Issuance

/*
IssueLoginCode mints a fresh one-time login code for the given account,
creating the account on first contact.

Description: Issuing always overwrites the previous code state, so at most
one redeemable code exists per account. Accounts on the super-admin
allow-list get the privileged tier; otherwise the very first account ever
created claims a persisted one-shot flag and becomes the bootstrap admin.

Parameters:
  - context: context.Context
  - qqid: int64
  - nickname: string (chat nickname used as the initial profile name)

Returns:
  - *User: The account the code was issued for
  - string: The raw login code (delivered out-of-band by the bot)
  - error: Storage or entropy failures
*/
func (service *Service) IssueLoginCode(context context.Context, qqid int64, nickname string) (*User, string, error) {
	salt, err := service.randomString(SaltLength, sec.AlphabetAlnum)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_salt_generation_failed: %w", err)
	}

	defaults := &User{
		QQID:           qqid,
		Nickname:       nickname,
		AuthorityGroup: sec.AuthorityStandard,
		Salt:           salt,
	}

	user, created, err := service.users.GetOrCreate(context, defaults)
	if err != nil {
		return nil, "", err
	}

	// Authority bootstrap. Allow-listed accounts are promoted on every
	// contact (so a later config change takes effect); outside the
	// allow-list, exactly one account in the system's lifetime wins the
	// bootstrap claim.
	if user.AuthorityGroup != sec.AuthoritySuperAdmin {
		promote := service.configuration.IsSuperAdmin(qqid)
		if !promote && created {
			won, err := service.flags.TryClaim(context, FlagAdminBootstrapped)
			if err != nil {
				return nil, "", err
			}
			promote = won
		}
		if promote {
			user.AuthorityGroup = sec.AuthoritySuperAdmin
			service.logger.Info("account promoted to super-admin",
				slog.Int64("qqid", qqid))
		}
	}

	code, err := service.randomString(LoginCodeLength, sec.AlphabetAlnum)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	user.LoginCode = code
	user.LoginCodeExpireAt = service.now() + LoginCodeTTL
	user.LoginCodeAvailable = true

	if err := service.users.Save(context, user); err != nil {
		return nil, "", err
	}

	return user, code, nil
}

/*
LoginLink renders the clickable login URL for a freshly issued code.

Parameters:
  - qqid: int64
  - code: string

Returns:
  - string: Absolute URL under the configured public address
*/
func (service *Service) LoginLink(qqid int64, code string) string {
	return fmt.Sprintf("%s%slogin/?qqid=%d&key=%s",
		strings.TrimSuffix(service.configuration.PublicAddress, "/"),
		service.configuration.PublicBasepath,
		qqid,
		code,
	)
}

// # Credential Checks

/*
CheckCode validates a presented login code against the account state.

Description: The checks run in a fixed order so the user always gets the
most specific diagnosis: a wrong code is reported as invalid even when the
stored code has also expired; expiry is reported before single-use
consumption. A code is redeemable through the exact expiry second.

Parameters:
  - user: *User (nil when the account does not exist)
  - code: string

Returns:
  - error: InvalidAddress, Expired or AlreadyUsed; nil when redeemable
*/
func (service *Service) CheckCode(user *User, code string) error {
	if user == nil || user.LoginCode == "" || user.LoginCode != code {
		return apperr.InvalidAddress("无效的登录地址", "请检查登录地址是否完整且为最新。")
	}
	if user.LoginCodeExpireAt < service.now() {
		return apperr.Expired("这个登录地址已过期", service.adviceNewLink())
	}
	if !user.LoginCodeAvailable {
		return apperr.AlreadyUsed("这个登录地址已被使用", service.adviceNewLink())
	}
	return nil
}

/*
VerifyPassword validates a presented password against the account.

Description: Not-configured and lockout are checked before any hash
comparison, so a locked account never gets an oracle on its password. Every
mismatch bumps the failure counter atomically; the counter only resets on a
successful password change.

Parameters:
  - context: context.Context
  - user: *User (nil when the account does not exist)
  - password: string

Returns:
  - error: NotConfigured, AccountLocked or InvalidCredentials; nil on match
*/
func (service *Service) VerifyPassword(context context.Context, user *User, password string) error {
	if user == nil || !user.HasPassword() {
		return apperr.NotConfigured("QQ号错误 或 您尚未设置密码", service.adviceSetPassword())
	}
	if user.Locked() {
		return apperr.AccountLocked("您的密码错误次数过多，账号已锁定", service.adviceForgotPassword())
	}
	if user.PasswordHash != sec.SaltedHash(password, user.Salt) {
		count, err := service.users.IncrementLoginFailure(context, user.QQID)
		if err != nil {
			return err
		}
		user.FailureCount = count
		return apperr.InvalidCredentials("您的密码不正确", service.adviceForgotPassword())
	}
	return nil
}

/*
SetPassword stores a new password for the account and clears the lockout
counter.

Description: The digest is computed with the account's permanent salt
(minted at account creation). Changing the password is the only way out of
a lockout.

Parameters:
  - context: context.Context
  - qqid: int64
  - password: string

Returns:
  - error: UserNotFound or storage failures
*/
func (service *Service) SetPassword(context context.Context, qqid int64, password string) error {
	user, err := service.users.FindByID(context, qqid)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.UserNotFound("用户不存在", service.adviceJoinFirst())
	}

	salt := user.Salt
	if salt == "" {
		// Legacy rows created before salts were minted at creation time.
		salt, err = service.randomString(SaltLength, sec.AlphabetAlnum)
		if err != nil {
			return fmt.Errorf("auth_service_salt_generation_failed: %w", err)
		}
	}

	return service.users.UpdatePassword(context, qqid, sec.SaltedHash(password, salt), salt)
}

// # Cookie Sessions

/*
Recall revives a login from a "<qqid>:<secret>" cookie.

Description: The raw secret is digested with the account salt and used as a
point-query key; raw secrets are never stored or compared. Expiry is
checked lazily here, and a live hit refreshes the session's last-seen
metadata.

Parameters:
  - context: context.Context
  - cookie: string (raw cookie value)
  - addr: string (client address)

Returns:
  - *User: The recalled account
  - error: Malformed, InvalidSession, UserNotFound, Expired or storage failures
*/
func (service *Service) Recall(context context.Context, cookie string, addr string) (*User, error) {
	if cookie == "" {
		return nil, apperr.Expired("登录已过期", service.adviceRelogin())
	}

	parts := strings.Split(cookie, ":")
	if len(parts) != 2 {
		return nil, apperr.Malformed("Cookie异常", service.adviceRelogin())
	}
	qqid, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, apperr.Malformed("Cookie异常", service.adviceRelogin())
	}

	user, err := service.users.FindByID(context, qqid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.UserNotFound("用户不存在", service.adviceJoinFirst())
	}

	session, err := service.sessions.FindByUserAndHash(context, qqid, sec.SaltedHash(parts[1], user.Salt))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.InvalidSession("Cookie异常", service.adviceJoinFirst())
	}

	now := service.now()
	if session.ExpireAt < now {
		return nil, apperr.Expired("登录已过期", service.adviceJoinFirst())
	}

	if err := service.sessions.Touch(context, session.ID, now, addr); err != nil {
		return nil, err
	}

	return user, nil
}

/*
IssueSession opens a fresh cookie session for an authenticated account.

Description: A new random secret is minted per login; only its salted
digest is persisted. Sibling sessions of the same account are untouched, so
every device keeps its own independent 7-day window.

Parameters:
  - context: context.Context
  - user: *User
  - addr: string (client address)

Returns:
  - string: The cookie value "<qqid>:<secret>"
  - int64: The session expiry (epoch seconds), for the cookie max-age
  - error: Entropy or storage failures
*/
func (service *Service) IssueSession(context context.Context, user *User, addr string) (string, int64, error) {
	secret, err := service.randomString(CookieSecretLength, sec.AlphabetAlnum)
	if err != nil {
		return "", 0, fmt.Errorf("auth_service_secret_generation_failed: %w", err)
	}

	now := service.now()
	expireAt := now + SessionTTL

	session := &Session{
		QQID:             user.QQID,
		CookieSecretHash: sec.SaltedHash(secret, user.Salt),
		ExpireAt:         expireAt,
		LastSeenTime:     now,
		LastSeenAddr:     addr,
	}
	if err := service.sessions.Create(context, session); err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%d:%s", user.QQID, secret), expireAt, nil
}

// # Login Orchestration

// LoginAttempt carries everything a login request may present. All fields
// are optional; the combination decides which path is taken.
type LoginAttempt struct {
	QQID      string // Raw form value, unparsed.
	Code      string // One-time login code ("key" form field).
	Password  string
	Cookie    string // Raw "<qqid>:<secret>" auth cookie, if presented.
	SessionID string // Web-session cookie value, if presented.
	Addr      string // Client address for audit metadata.
}

// AuthOutcome describes a successful authentication.
type AuthOutcome struct {
	User *User

	// Cookie is the fresh "<qqid>:<secret>" value to set, empty when the
	// login was revived from an existing cookie (no rotation on recall).
	Cookie         string
	CookieExpireAt int64

	// Server-side web session minted (or confirmed) for this login.
	SessionID string
	CSRFToken string

	// Passthrough is true when a live web session short-circuited the
	// whole flow and no credential was checked.
	Passthrough bool
}

/*
Authenticate runs the full login decision tree for one request.

Description: Credential precedence follows the login page contract:

 1. A presented login code is checked first. When the code fails but an
    auth cookie is also present, the failure is deferred and cookie recall
    is attempted; the original code failure resurfaces only if the recall
    also fails.
 2. A presented password is checked when the code path was not deferred.
 3. Without a usable QQ ID, a live web session passes straight through,
    then cookie recall is attempted.
 4. A request with neither credentials nor cookie is malformed.

A code or password login consumes the outstanding code and rotates in a
brand-new cookie session; a recall keeps the existing cookie.

Parameters:
  - context: context.Context
  - attempt: LoginAttempt

Returns:
  - *AuthOutcome: Authenticated account plus transport material
  - error: The taxonomy error describing the most specific failure
*/
func (service *Service) Authenticate(context context.Context, attempt LoginAttempt) (*AuthOutcome, error) {
	if attempt.QQID == "" && attempt.Cookie == "" {
		return nil, apperr.Malformed("未提供登录凭证", service.adviceGetLink())
	}

	var user *User
	var deferred error
	useCredentials := attempt.QQID != ""

	if attempt.QQID != "" {
		qqid, err := strconv.ParseInt(attempt.QQID, 10, 64)
		if err != nil {
			return nil, apperr.Malformed("无效的登录地址", "请检查登录地址是否完整且为最新。")
		}

		user, err = service.users.FindByID(context, qqid)
		if err != nil {
			return nil, err
		}

		if attempt.Code != "" {
			if err := service.CheckCode(user, attempt.Code); err != nil {
				if attempt.Cookie == "" {
					return nil, err
				}
				// A stale link with a live cookie is common (re-clicking an
				// old chat message): remember the failure, try the cookie.
				deferred = err
				useCredentials = false
			}
		}

		if useCredentials && attempt.Password != "" {
			if err := service.VerifyPassword(context, user, attempt.Password); err != nil {
				return nil, err
			}
		}
	}

	if attempt.Cookie != "" && !useCredentials {
		if outcome := service.passthrough(context, attempt.SessionID); outcome != nil {
			return outcome, nil
		}

		recalled, err := service.Recall(context, attempt.Cookie, attempt.Addr)
		if err != nil {
			if deferred != nil {
				return nil, deferred
			}
			return nil, err
		}
		return service.finishLogin(context, recalled, attempt.Addr, false, false)
	}

	if attempt.Code == "" && attempt.Password == "" {
		return nil, apperr.Malformed("无效的登录地址", "请检查登录地址是否完整")
	}

	return service.finishLogin(context, user, attempt.Addr, true, attempt.Code != "")
}

// passthrough resolves a live web session without touching any credential.
// Returns nil when the session is absent, dead, or orphaned.
func (service *Service) passthrough(context context.Context, sessionID string) *AuthOutcome {
	if sessionID == "" {
		return nil
	}

	webSession, err := service.webSessions.Get(context, sessionID)
	if err != nil {
		service.logger.Warn("web session lookup failed", slog.Any("error", err))
		return nil
	}
	if webSession == nil {
		return nil
	}

	user, err := service.users.FindByID(context, webSession.QQID)
	if err != nil || user == nil {
		return nil
	}

	return &AuthOutcome{
		User:        user,
		SessionID:   sessionID,
		CSRFToken:   webSession.CSRFToken,
		Passthrough: true,
	}
}

// finishLogin mints the web session, stamps the account's last-login
// metadata, and (for credential logins) consumes the code and rotates in a
// fresh cookie session. Recalls keep their existing cookie.
func (service *Service) finishLogin(context context.Context, user *User, addr string, rotate bool, codeUsed bool) (*AuthOutcome, error) {
	sessionID, err := service.randomString(WebSessionIDLength, sec.AlphabetAlnum)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_id_generation_failed: %w", err)
	}
	csrfToken, err := service.randomString(CSRFTokenLength, sec.AlphabetAlnum)
	if err != nil {
		return nil, fmt.Errorf("auth_service_csrf_generation_failed: %w", err)
	}

	// The web session records the PREVIOUS login so the dashboard can show
	// "last seen" before this stamp overwrites it.
	webSession := &WebSession{
		QQID:          user.QQID,
		Authority:     user.AuthorityGroup,
		CSRFToken:     csrfToken,
		LastLoginTime: user.LastLoginTime,
		LastLoginAddr: user.LastLoginAddr,
	}
	if err := service.webSessions.Put(context, sessionID, webSession); err != nil {
		return nil, err
	}

	outcome := &AuthOutcome{
		User:      user,
		SessionID: sessionID,
		CSRFToken: csrfToken,
	}

	now := service.now()
	if codeUsed {
		// Atomic flip: a concurrent redemption of the same code loses here
		// even though both requests passed CheckCode.
		consumed, err := service.users.ConsumeLoginCode(context, user.QQID, now, addr)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return nil, apperr.AlreadyUsed("这个登录地址已被使用", service.adviceNewLink())
		}
	} else {
		if rotate {
			// Password login: retire any outstanding code as well.
			user.LoginCodeAvailable = false
		}
		user.LastLoginTime = now
		user.LastLoginAddr = addr
		if err := service.users.Save(context, user); err != nil {
			return nil, err
		}
	}
	user.LastLoginTime = now
	user.LastLoginAddr = addr

	if rotate {
		cookie, expireAt, err := service.IssueSession(context, user, addr)
		if err != nil {
			return nil, err
		}
		outcome.Cookie = cookie
		outcome.CookieExpireAt = expireAt
	}

	return outcome, nil
}

// # Logout & Revocation

/*
Logout tears down both halves of a login: the volatile web session and,
when a valid auth cookie is presented, its backing session row.

Parameters:
  - context: context.Context
  - sessionID: string (web-session cookie value, may be empty)
  - cookie: string (raw auth cookie value, may be empty)

Returns:
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, sessionID string, cookie string) error {
	if sessionID != "" {
		if err := service.webSessions.Delete(context, sessionID); err != nil {
			return err
		}
	}

	if cookie == "" {
		return nil
	}
	parts := strings.Split(cookie, ":")
	if len(parts) != 2 {
		return nil
	}
	qqid, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil
	}

	user, err := service.users.FindByID(context, qqid)
	if err != nil || user == nil {
		return err
	}

	return service.sessions.DeleteByUserAndHash(context, qqid, sec.SaltedHash(parts[1], user.Salt))
}

/*
RevokeAllSessions drops every cookie session of the account, logging out
all devices at once.

Parameters:
  - context: context.Context
  - qqid: int64

Returns:
  - error: Storage failures
*/
func (service *Service) RevokeAllSessions(context context.Context, qqid int64) error {
	return service.sessions.DeleteByUser(context, qqid)
}

// # Maintenance

/*
SweepExpiredSessions physically removes expired cookie sessions.

Description: Expiry is already enforced lazily on every recall, so the
sweep is pure hygiene and naturally idempotent. It runs on a daily ticker.

Parameters:
  - context: context.Context

Returns:
  - int64: Number of sessions removed
  - error: Storage failures
*/
func (service *Service) SweepExpiredSessions(context context.Context) (int64, error) {
	removed, err := service.sessions.DeleteExpired(context, service.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		service.logger.Info("expired sessions swept", slog.Int64("removed", removed))
	}
	return removed, nil
}

// # Middleware Integration

/*
ResolveWebSession maps a web-session cookie value to a request identity.

Description: Implements the middleware session-resolver contract. A nil
identity with a nil error means the session is unknown or expired; the
middleware degrades such requests to anonymous.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *sec.Identity: Resolved identity, nil when the session is dead
  - error: Retrieval failures
*/
func (service *Service) ResolveWebSession(context context.Context, sessionID string) (*sec.Identity, error) {
	webSession, err := service.webSessions.Get(context, sessionID)
	if err != nil {
		return nil, err
	}
	if webSession == nil {
		return nil, nil
	}

	return &sec.Identity{
		QQID:      webSession.QQID,
		Authority: webSession.Authority,
		SessionID: sessionID,
		CSRFToken: webSession.CSRFToken,
	}, nil
}
