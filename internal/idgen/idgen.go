// Package idgen produces invoice numbers.
package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Generator is the invoice-number source injected into the ledger engine.
type Generator interface {
	Next() (uint32, error)
}

// Random draws 32-bit invoice numbers from the system CSPRNG. Generated
// numbers are not checked against the journals; collisions across the
// lifetime of a ledger are possible but vanishingly rare.
type Random struct{}

// NewRandom returns a CSPRNG-backed generator.
func NewRandom() *Random {
	return &Random{}
}

// Next returns a fresh random invoice number.
func (g *Random) Next() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("idgen: reading random bytes: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
