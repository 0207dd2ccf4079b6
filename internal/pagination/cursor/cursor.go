// Package cursor encodes the keyset continuation point of a scrolling list.
//
// A cursor is "<RFC 3339 timestamp>_<id>". The timestamp is the primary sort
// key and the id breaks ties between rows sharing a timestamp.
package cursor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const separator = "_"

// ErrMalformed is returned when a cursor cannot be decoded.
var ErrMalformed = errors.New("malformed cursor")

// Position is a decoded cursor.
type Position struct {
	Timestamp time.Time
	ID        uint
}

// Encode renders the cursor for a row sorted at (ts, id).
func Encode(ts time.Time, id uint) string {
	return ts.UTC().Format(time.RFC3339Nano) + separator + strconv.FormatUint(uint64(id), 10)
}

// Decode parses a cursor produced by Encode. The string is split on the
// last separator so the timestamp part may itself contain one.
func Decode(s string) (Position, error) {
	i := strings.LastIndex(s, separator)
	if i <= 0 || i == len(s)-1 {
		return Position{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	ts, err := time.Parse(time.RFC3339Nano, s[:i])
	if err != nil {
		return Position{}, fmt.Errorf("%w: timestamp: %v", ErrMalformed, err)
	}

	id, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: id: %v", ErrMalformed, err)
	}

	return Position{Timestamp: ts.UTC(), ID: uint(id)}, nil
}

// String re-encodes the position.
func (p Position) String() string {
	return Encode(p.Timestamp, p.ID)
}
