package uuid

import (
	"crypto/rand"
	"fmt"
)

// Gen generates a short random id in the form "xxxxxxxx-xxxxxxxx".
// It is used to tell apart server runs in aggregated logs, not as a
// cluster wide identity.
func Gen() string {
	buf := make([]byte, 8)
	rand.Read(buf)

	return fmt.Sprintf("%x-%x", buf[0:4], buf[4:])
}
