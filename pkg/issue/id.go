package issue

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newID generates a short random identifier for a new node, falling back to
// a timestamp when the random source is unavailable.
func newID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("issue-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
