package filters

import (
	"strings"

	"github.com/google/uuid"
)

// shuffleTokenLength is plenty: tokens only need to be unique per visitor, not
// globally, and the server treats any unknown token as a fresh seed anyway.
const shuffleTokenLength = 8

/**************************************************************************************************
** NewShuffleToken generates a short alphanumeric shuffle token. Each token names one
** deterministic random ordering, so a fresh token per toggle gives the viewer a new order while
** keeping pagination stable for as long as the token lives.
**
** @return string - Lowercase alphanumeric token
**************************************************************************************************/
func NewShuffleToken() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:shuffleTokenLength]
}
