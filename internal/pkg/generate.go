package pkg

import "github.com/google/uuid"

// GenerateSessionToken - returns the per-tab identifier sent with the join
// command. Collisions are treated as negligible; the server does not
// deduplicate tokens.
func GenerateSessionToken() string {
	return uuid.NewString()
}
