// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clanboard/api/internal/platform/config"
)

/*
TestExtraAllowedOrigins verifies the comma-separated origin list parsing,
including whitespace trimming and empty entries.
*/
func TestExtraAllowedOrigins(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, cfg.ExtraAllowedOrigins())

	cfg.ExtraOrigins = "https://a.example.com, https://b.example.com ,,"
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		cfg.ExtraAllowedOrigins())
}
