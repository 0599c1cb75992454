// internal/daily/daily.go
//
// Daily challenge: every player gets the same field on a given UTC date.
// The field seed is HMAC(salt, YYYY-MM-DD), so it cannot be predicted
// without the server salt but is stable for the whole day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the non-zero field seed for date.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	if n := binary.BigEndian.Uint64(sum[:8]); n != 0 {
		return n
	}
	return binary.BigEndian.Uint64(sum[8:16]) | 1
}
