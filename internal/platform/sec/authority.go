// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package sec

// # Authority Tiers

// AuthorityGroup represents the privilege tier of an account.
// Lower values carry more privilege.
type AuthorityGroup int

const (
	// AuthoritySuperAdmin is granted to configured admin IDs and to the
	// first account that ever registers with the bot.
	AuthoritySuperAdmin AuthorityGroup = 1

	// AuthorityStandard is the default tier for every other account.
	AuthorityStandard AuthorityGroup = 100
)

// # Privilege Rules

// Privileged reports whether the tier is above the standard one.
//
// Cross-account operations (e.g. editing another user's nickname) require
// a privileged tier; self-targeted operations are always allowed and must
// be checked independently of this rule, never by comparing tier numbers.
func (g AuthorityGroup) Privileged() bool {
	return g < AuthorityStandard
}
