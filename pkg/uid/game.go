package uid

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

var gameIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateGameID returns a random 24 character id that is safe in URLs.
func GenerateGameID() string {
	b := make([]byte, 15)
	rand.Read(b)
	return strings.ToLower(gameIDEncoding.EncodeToString(b))
}
