package web

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// PasswordHash derives the opaque credential stored for a user: the blake2b
// digest of username + site secret + password, hex encoded. The backend
// only ever sees this value, never the raw password. The salting scheme is
// the site's historical wire format; changing it would invalidate every
// stored credential.
func PasswordHash(username, siteSecret, password string) string {
	salted := fmt.Sprintf("%s%s%s", username, siteSecret, password)
	sum := blake2b.Sum512([]byte(salted))
	return hex.EncodeToString(sum[:])
}
