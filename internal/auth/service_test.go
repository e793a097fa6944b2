// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clanboard/api/internal/platform/apperr"
	"github.com/clanboard/api/internal/platform/config"
	"github.com/clanboard/api/internal/platform/sec"
)

// # In-Memory Fakes

// memoryStore implements all four repository contracts on plain maps.
// Entities are copied on the way in and out, so unsaved mutations on the
// caller's structs never leak into "storage" — same visibility rules as
// the real database.
type memoryStore struct {
	users       map[int64]*User
	sessions    map[string]*Session
	webSessions map[string]*WebSession
	flags       map[string]bool

	sessionSeq int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[int64]*User),
		sessions:    make(map[string]*Session),
		webSessions: make(map[string]*WebSession),
		flags:       make(map[string]bool),
	}
}

func (store *memoryStore) FindByID(_ context.Context, qqid int64) (*User, error) {
	user, ok := store.users[qqid]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (store *memoryStore) GetOrCreate(_ context.Context, defaults *User) (*User, bool, error) {
	if user, ok := store.users[defaults.QQID]; ok {
		clone := *user
		return &clone, false, nil
	}
	clone := *defaults
	store.users[defaults.QQID] = &clone
	result := clone
	return &result, true, nil
}

func (store *memoryStore) Save(_ context.Context, user *User) error {
	clone := *user
	store.users[user.QQID] = &clone
	return nil
}

func (store *memoryStore) IncrementLoginFailure(_ context.Context, qqid int64) (int, error) {
	user, ok := store.users[qqid]
	if !ok {
		return 0, apperr.StoreUnavailable(fmt.Errorf("no such user %d", qqid))
	}
	user.FailureCount++
	return user.FailureCount, nil
}

func (store *memoryStore) ConsumeLoginCode(_ context.Context, qqid int64, now int64, addr string) (bool, error) {
	user, ok := store.users[qqid]
	if !ok || !user.LoginCodeAvailable {
		return false, nil
	}
	user.LoginCodeAvailable = false
	user.LastLoginTime = now
	user.LastLoginAddr = addr
	return true, nil
}

func (store *memoryStore) UpdatePassword(_ context.Context, qqid int64, hash, salt string) error {
	user, ok := store.users[qqid]
	if !ok {
		return apperr.StoreUnavailable(fmt.Errorf("no such user %d", qqid))
	}
	user.PasswordHash = hash
	user.Salt = salt
	user.FailureCount = 0
	return nil
}

func (store *memoryStore) Create(_ context.Context, session *Session) error {
	if session.ID == "" {
		store.sessionSeq++
		session.ID = fmt.Sprintf("session-%d", store.sessionSeq)
	}
	clone := *session
	store.sessions[session.ID] = &clone
	return nil
}

func (store *memoryStore) FindByUserAndHash(_ context.Context, qqid int64, secretHash string) (*Session, error) {
	for _, session := range store.sessions {
		if session.QQID == qqid && session.CookieSecretHash == secretHash {
			clone := *session
			return &clone, nil
		}
	}
	return nil, nil
}

func (store *memoryStore) Touch(_ context.Context, sessionID string, now int64, addr string) error {
	if session, ok := store.sessions[sessionID]; ok {
		session.LastSeenTime = now
		session.LastSeenAddr = addr
	}
	return nil
}

func (store *memoryStore) DeleteByUserAndHash(_ context.Context, qqid int64, secretHash string) error {
	for id, session := range store.sessions {
		if session.QQID == qqid && session.CookieSecretHash == secretHash {
			delete(store.sessions, id)
		}
	}
	return nil
}

func (store *memoryStore) DeleteByUser(_ context.Context, qqid int64) error {
	for id, session := range store.sessions {
		if session.QQID == qqid {
			delete(store.sessions, id)
		}
	}
	return nil
}

func (store *memoryStore) DeleteExpired(_ context.Context, now int64) (int64, error) {
	var removed int64
	for id, session := range store.sessions {
		if session.ExpireAt < now {
			delete(store.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (store *memoryStore) Put(_ context.Context, sessionID string, session *WebSession) error {
	clone := *session
	store.webSessions[sessionID] = &clone
	return nil
}

func (store *memoryStore) Get(_ context.Context, sessionID string) (*WebSession, error) {
	session, ok := store.webSessions[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *session
	return &clone, nil
}

func (store *memoryStore) Delete(_ context.Context, sessionID string) error {
	delete(store.webSessions, sessionID)
	return nil
}

func (store *memoryStore) TryClaim(_ context.Context, name string) (bool, error) {
	if store.flags[name] {
		return false, nil
	}
	store.flags[name] = true
	return true, nil
}

// # Test Harness

const testEpoch = int64(1_700_000_000)

type testEnv struct {
	service *Service
	store   *memoryStore
	clock   int64
	randSeq int
}

// newTestEnv builds a service on in-memory storage with a settable clock
// and a deterministic entropy source (zero-padded counter strings).
func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{
			PublicAddress:  "https://board.example.com",
			PublicBasepath: "/",
		}
	}

	env := &testEnv{store: newMemoryStore(), clock: testEpoch}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env.service = NewService(env.store, env.store, env.store, env.store, cfg, logger)
	env.service.now = func() int64 { return env.clock }
	env.service.randomString = func(length int, alphabet string) (string, error) {
		env.randSeq++
		return fmt.Sprintf("%0*d", length, env.randSeq), nil
	}

	return env
}

func (env *testEnv) advance(seconds int64) { env.clock += seconds }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.NotEmpty(t, appErr.Message)
}

// # Login Code Issuance

/*
TestIssueLoginCode_ReissueInvalidatesPrevious verifies that at most one
redeemable code exists per account: issuing again makes the old code fail
as invalid while the new one stays redeemable.
*/
func TestIssueLoginCode_ReissueInvalidatesPrevious(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, oldCode, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	user, newCode, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)
	require.NotEqual(t, oldCode, newCode)

	assertCode(t, env.service.CheckCode(user, oldCode), apperr.CodeInvalidAddress)
	assert.NoError(t, env.service.CheckCode(user, newCode))
}

/*
TestIssueLoginCode_FirstAccountBecomesAdmin verifies the bootstrap rule:
the very first account created claims the one-shot flag and gets the
privileged tier; later accounts stay standard.
*/
func TestIssueLoginCode_FirstAccountBecomesAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, _, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)
	assert.Equal(t, sec.AuthoritySuperAdmin, first.AuthorityGroup)

	second, _, err := env.service.IssueLoginCode(ctx, 1002, "Beidou")
	require.NoError(t, err)
	assert.Equal(t, sec.AuthorityStandard, second.AuthorityGroup)
}

/*
TestIssueLoginCode_AllowListPromotion verifies that accounts on the
configured allow-list get the privileged tier even when created later.
*/
func TestIssueLoginCode_AllowListPromotion(t *testing.T) {
	env := newTestEnv(t, &config.Config{
		PublicAddress:  "https://board.example.com",
		PublicBasepath: "/",
		SuperAdminIDs:  []int64{2002},
	})
	ctx := context.Background()

	_, _, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	listed, _, err := env.service.IssueLoginCode(ctx, 2002, "Chief")
	require.NoError(t, err)
	assert.Equal(t, sec.AuthoritySuperAdmin, listed.AuthorityGroup)
}

/*
TestLoginLink verifies the rendered link carries the account id and code
under the configured public address.
*/
func TestLoginLink(t *testing.T) {
	env := newTestEnv(t, nil)

	link := env.service.LoginLink(1001, "A1B2C3")
	assert.Equal(t, "https://board.example.com/login/?qqid=1001&key=A1B2C3", link)
}

// # Code Redemption

/*
TestCheckCode_ExpiryBoundary verifies the exact expiry semantics: a code
issued with a 60 second lifetime is still redeemable at +60s and rejected
at +61s.
*/
func TestCheckCode_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	user, code, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	env.advance(LoginCodeTTL)
	assert.NoError(t, env.service.CheckCode(user, code))

	env.advance(1)
	assertCode(t, env.service.CheckCode(user, code), apperr.CodeExpired)
}

/*
TestCheckCode_DiagnosisOrder verifies that a wrong code is reported as
invalid even when the stored code has expired, and that expiry is reported
before consumption.
*/
func TestCheckCode_DiagnosisOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	user, code, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	// Wrong code wins over expiry.
	env.advance(LoginCodeTTL + 10)
	assertCode(t, env.service.CheckCode(user, "WRONG1"), apperr.CodeInvalidAddress)

	// Expiry wins over consumption.
	user.LoginCodeAvailable = false
	assertCode(t, env.service.CheckCode(user, code), apperr.CodeExpired)

	// A consumed but unexpired code reports single-use.
	user.LoginCodeExpireAt = env.clock + LoginCodeTTL
	assertCode(t, env.service.CheckCode(user, code), apperr.CodeAlreadyUsed)

	// Unknown account looks identical to a wrong code.
	assertCode(t, env.service.CheckCode(nil, code), apperr.CodeInvalidAddress)
}

/*
TestAuthenticate_CodeLogin walks the happy path: issue a code, redeem it,
and receive a rotated cookie plus a server-side web session.
*/
func TestAuthenticate_CodeLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, code, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	outcome, err := env.service.Authenticate(ctx, LoginAttempt{
		QQID: "1001",
		Code: code,
		Addr: "198.51.100.7",
	})
	require.NoError(t, err)

	assert.False(t, outcome.Passthrough)
	assert.True(t, strings.HasPrefix(outcome.Cookie, "1001:"), "cookie %q", outcome.Cookie)
	assert.Equal(t, env.clock+SessionTTL, outcome.CookieExpireAt)
	assert.NotEmpty(t, outcome.SessionID)
	assert.NotEmpty(t, outcome.CSRFToken)

	// The login stamped the audit metadata.
	stored := env.store.users[1001]
	assert.Equal(t, env.clock, stored.LastLoginTime)
	assert.Equal(t, "198.51.100.7", stored.LastLoginAddr)
	assert.False(t, stored.LoginCodeAvailable)

	// The web session recorded the PREVIOUS login (zero for a first login).
	webSession := env.store.webSessions[outcome.SessionID]
	require.NotNil(t, webSession)
	assert.Equal(t, int64(0), webSession.LastLoginTime)
}

/*
TestAuthenticate_CodeSingleUse verifies that a code redeems exactly once;
the second redemption fails as already used even inside the TTL.
*/
func TestAuthenticate_CodeSingleUse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, code, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	_, err = env.service.Authenticate(ctx, LoginAttempt{QQID: "1001", Code: code})
	require.NoError(t, err)

	_, err = env.service.Authenticate(ctx, LoginAttempt{QQID: "1001", Code: code})
	assertCode(t, err, apperr.CodeAlreadyUsed)
}

/*
TestAuthenticate_NoCredentials verifies that a request with neither a QQ id
nor a cookie is rejected as malformed.
*/
func TestAuthenticate_NoCredentials(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Authenticate(context.Background(), LoginAttempt{})
	assertCode(t, err, apperr.CodeMalformed)

	// A QQ id alone, without code or password, is also malformed.
	_, _, err = env.service.IssueLoginCode(context.Background(), 1001, "Ayaka")
	require.NoError(t, err)
	_, err = env.service.Authenticate(context.Background(), LoginAttempt{QQID: "1001"})
	assertCode(t, err, apperr.CodeMalformed)
}

// # Password Verification

func setupPasswordUser(t *testing.T, env *testEnv, qqid int64, password string) {
	t.Helper()
	ctx := context.Background()
	_, _, err := env.service.IssueLoginCode(ctx, qqid, "Ayaka")
	require.NoError(t, err)
	require.NoError(t, env.service.SetPassword(ctx, qqid, password))
}

/*
TestVerifyPassword_NotConfigured verifies that an account without a
password (and a missing account) reports the not-configured diagnosis.
*/
func TestVerifyPassword_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	user, _, err := env.service.IssueLoginCode(ctx, 1001, "Ayaka")
	require.NoError(t, err)

	assertCode(t, env.service.VerifyPassword(ctx, user, "hunter42"), apperr.CodeNotConfigured)
	assertCode(t, env.service.VerifyPassword(ctx, nil, "hunter42"), apperr.CodeNotConfigured)
}

/*
TestVerifyPassword_LockoutAfterThreeFailures verifies the 3-strike rule:
three wrong attempts lock the account, and the lock is reported even for
the correct password without any hash comparison resetting it.
*/
func TestVerifyPassword_LockoutAfterThreeFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	setupPasswordUser(t, env, 1001, "correct-horse")

	for i := 0; i < FailureThreshold; i++ {
		user, err := env.store.FindByID(ctx, 1001)
		require.NoError(t, err)
		assertCode(t, env.service.VerifyPassword(ctx, user, "wrong-guess"), apperr.CodeInvalidCredentials)
	}

	user, err := env.store.FindByID(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, user.Locked())
	assertCode(t, env.service.VerifyPassword(ctx, user, "correct-horse"), apperr.CodeAccountLocked)
}

/*
TestSetPassword_ClearsLockout verifies that changing the password is the
way out of a lockout: the counter resets and the new password verifies.
*/
func TestSetPassword_ClearsLockout(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	setupPasswordUser(t, env, 1001, "correct-horse")

	for i := 0; i < FailureThreshold; i++ {
		user, _ := env.store.FindByID(ctx, 1001)
		_ = env.service.VerifyPassword(ctx, user, "wrong-guess")
	}

	require.NoError(t, env.service.SetPassword(ctx, 1001, "battery-staple"))

	user, err := env.store.FindByID(ctx, 1001)
	require.NoError(t, err)
	assert.Zero(t, user.FailureCount)
	assert.NoError(t, env.service.VerifyPassword(ctx, user, "battery-staple"))
}

/*
TestAuthenticate_PasswordLogin verifies login with QQ id plus password:
the outcome rotates a fresh cookie exactly like a code login.
*/
func TestAuthenticate_PasswordLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	setupPasswordUser(t, env, 1001, "correct-horse")

	outcome, err := env.service.Authenticate(ctx, LoginAttempt{
		QQID:     "1001",
		Password: "correct-horse",
		Addr:     "203.0.113.9",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(outcome.Cookie, "1001:"))

	_, err = env.service.Authenticate(ctx, LoginAttempt{QQID: "1001", Password: "wrong-guess"})
	assertCode(t, err, apperr.CodeInvalidCredentials)
}

// # Cookie Recall

func loginWithCode(t *testing.T, env *testEnv, qqid int64) *AuthOutcome {
	t.Helper()
	ctx := context.Background()
	_, code, err := env.service.IssueLoginCode(ctx, qqid, "Ayaka")
	require.NoError(t, err)
	outcome, err := env.service.Authenticate(ctx, LoginAttempt{
		QQID: fmt.Sprintf("%d", qqid),
		Code: code,
		Addr: "198.51.100.7",
	})
	require.NoError(t, err)
	return outcome
}

/*
TestAuthenticate_CookieRoundTrip verifies that a cookie from a code login
revives the session later without rotating a new cookie.
*/
func TestAuthenticate_CookieRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	env.advance(3600)

	recalled, err := env.service.Authenticate(ctx, LoginAttempt{
		Cookie: outcome.Cookie,
		Addr:   "198.51.100.8",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), recalled.User.QQID)
	assert.Empty(t, recalled.Cookie, "recall must not rotate the cookie")
	assert.NotEmpty(t, recalled.SessionID)
	assert.False(t, recalled.Passthrough)
}

/*
TestRecall_TamperedCookie verifies that a broken cookie fails the recall
with the right diagnosis: a structurally invalid value is malformed input,
while a well-formed value with a wrong secret is a dead session.
*/
func TestRecall_TamperedCookie(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	parts := strings.SplitN(outcome.Cookie, ":", 2)
	require.Len(t, parts, 2)

	_, err := env.service.Recall(ctx, parts[0]+":"+"tampered"+parts[1][8:], "addr")
	assertCode(t, err, apperr.CodeInvalidSession)

	_, err = env.service.Recall(ctx, "9999:"+parts[1], "addr")
	assertCode(t, err, apperr.CodeUserNotFound)

	_, err = env.service.Recall(ctx, "not-a-cookie", "addr")
	assertCode(t, err, apperr.CodeMalformed)

	_, err = env.service.Recall(ctx, "abc:"+parts[1], "addr")
	assertCode(t, err, apperr.CodeMalformed)

	_, err = env.service.Recall(ctx, "1001:se:cret", "addr")
	assertCode(t, err, apperr.CodeMalformed)

	_, err = env.service.Recall(ctx, "", "addr")
	assertCode(t, err, apperr.CodeExpired)
}

/*
TestRecall_ExpiredSession verifies the 7-day window: the cookie works just
inside it and reports expiry past it.
*/
func TestRecall_ExpiredSession(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	env.advance(SessionTTL)
	_, err := env.service.Recall(ctx, outcome.Cookie, "addr")
	require.NoError(t, err)

	env.advance(1)
	_, err = env.service.Recall(ctx, outcome.Cookie, "addr")
	assertCode(t, err, apperr.CodeExpired)
}

/*
TestAuthenticate_DeferredCodeFailure verifies the stale-link rule: when a
failed code comes with a cookie, recall is attempted first; the original
code failure resurfaces only if the recall fails too.
*/
func TestAuthenticate_DeferredCodeFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	// Re-clicking the consumed link with a live cookie: recall wins.
	staleCode := env.store.users[1001].LoginCode
	recalled, err := env.service.Authenticate(ctx, LoginAttempt{
		QQID:   "1001",
		Code:   staleCode,
		Cookie: outcome.Cookie,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), recalled.User.QQID)

	// Same stale link with a broken cookie: the CODE failure is reported,
	// not the cookie failure.
	_, err = env.service.Authenticate(ctx, LoginAttempt{
		QQID:   "1001",
		Code:   staleCode,
		Cookie: "1001:garbage",
	})
	assertCode(t, err, apperr.CodeAlreadyUsed)
}

/*
TestAuthenticate_Passthrough verifies that a live web session skips every
credential check and keeps the same session id.
*/
func TestAuthenticate_Passthrough(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	again, err := env.service.Authenticate(ctx, LoginAttempt{
		Cookie:    outcome.Cookie,
		SessionID: outcome.SessionID,
	})
	require.NoError(t, err)
	assert.True(t, again.Passthrough)
	assert.Equal(t, outcome.SessionID, again.SessionID)
	assert.Equal(t, outcome.CSRFToken, again.CSRFToken)
	assert.Empty(t, again.Cookie)
}

// # Logout & Sweeping

/*
TestLogout verifies that logout drops both the web session and the cookie
session backing the presented cookie.
*/
func TestLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	require.NoError(t, env.service.Logout(ctx, outcome.SessionID, outcome.Cookie))

	assert.Empty(t, env.store.webSessions)
	assert.Empty(t, env.store.sessions)

	_, err := env.service.Recall(ctx, outcome.Cookie, "addr")
	assertCode(t, err, apperr.CodeInvalidSession)
}

/*
TestRevokeAllSessions verifies that revocation logs out every device of
one account and nobody else.
*/
func TestRevokeAllSessions(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	first := loginWithCode(t, env, 1001)
	second := loginWithCode(t, env, 1001)
	other := loginWithCode(t, env, 2002)

	require.NoError(t, env.service.RevokeAllSessions(ctx, 1001))

	_, err := env.service.Recall(ctx, first.Cookie, "addr")
	assertCode(t, err, apperr.CodeInvalidSession)
	_, err = env.service.Recall(ctx, second.Cookie, "addr")
	assertCode(t, err, apperr.CodeInvalidSession)

	_, err = env.service.Recall(ctx, other.Cookie, "addr")
	assert.NoError(t, err)
}

/*
TestSweepExpiredSessions verifies the sweep removes exactly the expired
rows and is idempotent.
*/
func TestSweepExpiredSessions(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	old := loginWithCode(t, env, 1001)
	env.advance(SessionTTL + 1)
	fresh := loginWithCode(t, env, 2002)

	removed, err := env.service.SweepExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = env.service.SweepExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = env.service.Recall(ctx, old.Cookie, "addr")
	assertCode(t, err, apperr.CodeInvalidSession)
	_, err = env.service.Recall(ctx, fresh.Cookie, "addr")
	assert.NoError(t, err)
}

// # Middleware Integration

/*
TestResolveWebSession verifies the middleware contract: a live session id
maps to an identity, a dead one maps to nil without error.
*/
func TestResolveWebSession(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	outcome := loginWithCode(t, env, 1001)

	identity, err := env.service.ResolveWebSession(ctx, outcome.SessionID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, int64(1001), identity.QQID)
	assert.Equal(t, outcome.CSRFToken, identity.CSRFToken)
	assert.True(t, identity.Authority.Privileged())

	identity, err = env.service.ResolveWebSession(ctx, "unknown-session")
	require.NoError(t, err)
	assert.Nil(t, identity)
}
