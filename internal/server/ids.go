package server

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// GeneratePK builds a record id from the current nanosecond timestamp plus a
// short digest of it: "<nanos>_<first 16 hex chars of sha256(nanos)>". Ids
// stay under the column's 50-char limit and sort roughly by creation time.
func GeneratePK() string {
	ts := strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := sha256.Sum256([]byte(ts))
	return ts + "_" + hex.EncodeToString(sum[:])[:16]
}
