// Package transcript implements the Fiat-Shamir recursiveHash oracle:
// deterministic, structured hashing of statement and commitment data into
// a challenge reduced into Z_q. Grounded on the sha256-over-bytes.Buffer
// hashing idiom used throughout this module's Fiat-Shamir challenges.
package transcript

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/mixerr"
)

// Hashable is anything that can be folded into a transcript: bytes,
// big.Ints, group elements, or nested slices of Hashables.
type Hashable interface {
	hashInto(buf *bytes.Buffer)
}

type bytesHashable []byte

func (b bytesHashable) hashInto(buf *bytes.Buffer) { buf.Write(b) }

// Bytes wraps a raw byte string for inclusion in a transcript.
func Bytes(b []byte) Hashable { return bytesHashable(b) }

type bigIntHashable struct{ v *big.Int }

func (b bigIntHashable) hashInto(buf *bytes.Buffer) { buf.WriteString(b.v.String()) }

// Int wraps a *big.Int for inclusion in a transcript.
func Int(v *big.Int) Hashable { return bigIntHashable{v} }

type elementHashable struct{ e group.Element }

func (b elementHashable) hashInto(buf *bytes.Buffer) { buf.WriteString(b.e.String()) }

// Element wraps a group element for inclusion in a transcript.
func Element(e group.Element) Hashable { return elementHashable{e} }

type listHashable []Hashable

func (b listHashable) hashInto(buf *bytes.Buffer) {
	for _, h := range b {
		h.hashInto(buf)
	}
}

// List flattens a sequence of Hashables, including slices of elements,
// into a single Hashable.
func List(hs ...Hashable) Hashable { return listHashable(hs) }

// Elements wraps a slice of group elements for inclusion in a transcript.
func Elements(es []group.Element) Hashable {
	hs := make(listHashable, len(es))
	for i, e := range es {
		hs[i] = Element(e)
	}
	return hs
}

// Oracle is the collaborator interface consumed by every sub-argument
// service: recursiveHash over structured data, reduced into Z_q.
type Oracle interface {
	// Challenge hashes the given Hashables and returns a value in
	// [0, mod). Hashing oracles truncate the underlying digest to strictly
	// fewer bits than bitlen(mod); SHA256Oracle checks the modulus on
	// every call.
	Challenge(mod *big.Int, hs ...Hashable) (*big.Int, error)
}

// SHA256Oracle is the production Oracle: sha256 over the concatenated
// byte/string representations of the transcript, interpreted as a
// big-endian integer and truncated to its leading bitlen(mod)-1 bits,
// enforcing the "strictly fewer bits than bitlen(q)" invariant required
// of a sound challenge distribution. Moduli of fewer than 3 bits are
// rejected, as they would leave at most a 1-bit challenge.
type SHA256Oracle struct{}

func (SHA256Oracle) Challenge(mod *big.Int, hs ...Hashable) (*big.Int, error) {
	if mod == nil || mod.Sign() <= 0 {
		return nil, fmt.Errorf("challenge modulus must be positive: %w", mixerr.ErrBoundsViolation)
	}
	bitLen := mod.BitLen()
	if bitLen < 3 {
		return nil, fmt.Errorf("challenge modulus too small to truncate a sha256 digest safely: %w", mixerr.ErrBoundsViolation)
	}
	var buf bytes.Buffer
	for _, h := range hs {
		h.hashInto(&buf)
	}
	digest := sha256.Sum256(buf.Bytes())

	nBits := bitLen - 1
	if nBits > 8*len(digest) {
		nBits = 8 * len(digest)
	}
	c := new(big.Int).SetBytes(digest[:])
	c.Rsh(c, uint(8*len(digest)-nBits))
	return c.Mod(c, mod), nil
}

// Fixed is a deterministic test fake that returns values from a
// pre-programmed queue, in call order, cycling once exhausted. Used to
// build reproducible test proofs by injecting both the oracle and the
// random source as interface values.
type Fixed struct {
	Values []*big.Int
	calls  int
}

func (f *Fixed) Challenge(mod *big.Int, _ ...Hashable) (*big.Int, error) {
	if len(f.Values) == 0 {
		return nil, fmt.Errorf("fixed oracle has no programmed values: %w", mixerr.ErrNullInput)
	}
	v := f.Values[f.calls%len(f.Values)]
	f.calls++
	return new(big.Int).Mod(v, mod), nil
}
