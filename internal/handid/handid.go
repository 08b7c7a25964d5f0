// Package handid generates sortable identifiers for dealt hands so log lines from
// one hand can be correlated.
package handid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"

	"github.com/coder/quartz"
)

// Crockford's base32, lowercase, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the size of an encoded id
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates UUIDv7-style ids: a 48-bit millisecond timestamp followed by
// random bits, encoded so ids sort by creation time.
type Generator struct {
	clock   quartz.Clock
	entropy io.Reader
}

// NewGenerator creates a generator. A nil clock uses the real clock and a nil
// entropy source uses crypto/rand.
func NewGenerator(clock quartz.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{clock: clock, entropy: entropy}
}

// Generate returns a new id
func (g *Generator) Generate() (string, error) {
	var uuid [16]byte

	now := g.clock.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if _, err := io.ReadFull(g.entropy, uuid[6:]); err != nil {
		return "", fmt.Errorf("hand id entropy: %w", err)
	}

	// version 7, variant 10
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return encoding.EncodeToString(uuid[:]), nil
}

// MustGenerate is Generate for callers with an infallible entropy source.
func (g *Generator) MustGenerate() string {
	id, err := g.Generate()
	if err != nil {
		panic(err)
	}
	return id
}

// Validate checks that id is a well-formed hand id
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand id must be exactly %d characters, got %d", Length, len(id))
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %c at position %d", r, i)
		}
	}
	if _, err := encoding.DecodeString(id); err != nil {
		return fmt.Errorf("hand id %q: %w", id, err)
	}
	return nil
}
