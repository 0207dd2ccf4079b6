// Package uuid generates time-ordered identifiers used to correlate requests
// in logs.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7 from the current time.
//
// Layout: 48 bits of Unix milliseconds, 4 version bits (0111), 12 random
// bits, 2 variant bits (10), 62 random bits.
func New() string {
	return newAt(time.Now())
}

func newAt(now time.Time) string {
	var b [16]byte

	binary.BigEndian.PutUint64(b[0:8], uint64(now.UnixMilli())<<16)

	if _, err := rand.Read(b[6:]); err != nil {
		return googleuuid.New().String()
	}

	b[6] = (b[6] & 0x0f) | 0x70
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(b[0:4]),
		binary.BigEndian.Uint16(b[4:6]),
		binary.BigEndian.Uint16(b[6:8]),
		binary.BigEndian.Uint16(b[8:10]),
		b[10:16],
	)
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
