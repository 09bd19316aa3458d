package state

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tempPrefix = "tmp-"

// NewTempID returns an identifier for a record that has not been confirmed
// by the server. It combines a nanosecond timestamp with a random suffix so
// two creates in the same instant never collide.
func NewTempID() string {
	return tempPrefix + strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + uuid.NewString()[:8]
}

// IsTempID reports whether id was produced by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}
