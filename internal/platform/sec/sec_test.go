// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clanboard/api/internal/platform/sec"
)

/*
TestSaltedHash_Deterministic verifies that the digest is stable (it serves
as a database equality key) and matches the SHA-256 of secret+salt.
*/
func TestSaltedHash_Deterministic(t *testing.T) {
	// Known SHA-256 vector for the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		sec.SaltedHash("", ""))

	first := sec.SaltedHash("hunter42", "pepper")
	second := sec.SaltedHash("hunter42", "pepper")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	// Salt participates in the digest.
	assert.NotEqual(t, first, sec.SaltedHash("hunter42", "other"))

	// The digest is over the plain secret+salt concatenation.
	assert.Equal(t, sec.SaltedHash("ab", "c"), sec.SaltedHash("a", "bc"))
}

/*
TestRandomString verifies length, alphabet membership, and the rejection
of degenerate requests.
*/
func TestRandomString(t *testing.T) {
	value, err := sec.RandomString(32, sec.AlphabetAlnum)
	require.NoError(t, err)
	assert.Len(t, value, 32)
	for _, r := range value {
		assert.True(t, strings.ContainsRune(sec.AlphabetAlnum, r), "unexpected symbol %q", r)
	}

	_, err = sec.RandomString(0, sec.AlphabetAlnum)
	assert.Error(t, err)
	_, err = sec.RandomString(8, "")
	assert.Error(t, err)
}

/*
TestAuthorityGroup_Privileged verifies the two-tier privilege rule.
*/
func TestAuthorityGroup_Privileged(t *testing.T) {
	assert.True(t, sec.AuthoritySuperAdmin.Privileged())
	assert.False(t, sec.AuthorityStandard.Privileged())
}
