// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// AlphabetAlnum is the default alphabet for generated secrets: 62 symbols,
// wide enough for both 6-char login codes and 32-char cookie secrets.
const AlphabetAlnum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomString returns a string of the given length drawn uniformly from
// alphabet using crypto/rand.
//
// # Parameters
//   - length: Number of characters to generate.
//   - alphabet: Symbol set to draw from (must be non-empty).
//
// # Returns
//   - The generated string, or an error if the system entropy source fails.
func RandomString(length int, alphabet string) (string, error) {
	if length <= 0 || alphabet == "" {
		return "", fmt.Errorf("sec: invalid random string request (length=%d)", length)
	}

	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		// Int is rejection-sampled, so the distribution stays uniform.
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("sec: entropy source failed: %w", err)
		}
		out[i] = alphabet[index.Int64()]
	}

	return string(out), nil
}
