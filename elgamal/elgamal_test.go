package elgamal

import (
	"math/big"
	"testing"

	"github.com/shufflemix/mixnet/group"
)

func toyGroup() group.Group {
	return group.NewModPGroupFromInts("toy23", big.NewInt(23), big.NewInt(11), big.NewInt(2))
}

// fixturePK builds pk = (8,13,4) over the Z*_23 toy group, reference
// test vector S4.
func fixturePK(t *testing.T) (group.Group, PublicKey) {
	t.Helper()
	g := toyGroup()
	pk := []group.Element{
		elemFromInt(g, 8),
		elemFromInt(g, 13),
		elemFromInt(g, 4),
	}
	p, err := NewPublicKey(g, pk)
	if err != nil {
		t.Fatal(err)
	}
	return g, p
}

func elemFromInt(g group.Group, v int64) group.Element {
	e := g.Element()
	return e.SetBytes(big.NewInt(v).Bytes())
}

func TestNewPublicKeyRejectsIdentity(t *testing.T) {
	g := toyGroup()
	if _, err := NewPublicKey(g, []group.Element{g.Identity()}); err == nil {
		t.Error("expected identity-component rejection")
	}
}

func TestReEncShapeAndGamma(t *testing.T) {
	g, pk := fixturePK(t)
	m := []group.Element{elemFromInt(g, 4), elemFromInt(g, 8), elemFromInt(g, 3)}
	c, err := ReEnc(m, big.NewInt(5), pk)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("Ciphertext.Len() = %d, want 3", c.Len())
	}
	wantGamma := g.Element().BaseScale(big.NewInt(5))
	if !c.Gamma.IsEqual(wantGamma) {
		t.Errorf("Gamma = %s, want g^rho = %s", c.Gamma, wantGamma)
	}
}

func TestReEncRejectsOverlongMessage(t *testing.T) {
	g, pk := fixturePK(t)
	m := []group.Element{elemFromInt(g, 1), elemFromInt(g, 1), elemFromInt(g, 1), elemFromInt(g, 1)}
	if _, err := ReEnc(m, big.NewInt(1), pk); err == nil {
		t.Error("expected bounds-violation error for message longer than pk")
	}
}

func TestReEncIdentityIsNeutralUnderMul(t *testing.T) {
	g, pk := fixturePK(t)
	m := []group.Element{elemFromInt(g, 4), elemFromInt(g, 8)}
	c, err := ReEnc(m, big.NewInt(5), pk)
	if err != nil {
		t.Fatal(err)
	}
	mask, err := ReEncIdentity(2, big.NewInt(9), pk)
	if err != nil {
		t.Fatal(err)
	}
	product, err := mask.Mul(c)
	if err != nil {
		t.Fatal(err)
	}
	reencrypted, err := ReEnc(m, new(big.Int).Add(big.NewInt(5), big.NewInt(9)), pk)
	if err != nil {
		t.Fatal(err)
	}
	if !product.IsEqual(reencrypted) {
		t.Errorf("mask*c = %+v, want ReEnc(m, rho1+rho2) = %+v", product, reencrypted)
	}
}

func TestCiphertextMulAndExp(t *testing.T) {
	g, pk := fixturePK(t)
	m := []group.Element{elemFromInt(g, 4)}
	c1, err := ReEnc(m, big.NewInt(2), pk)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := ReEnc(m, big.NewInt(3), pk)
	if err != nil {
		t.Fatal(err)
	}
	prod, err := c1.Mul(c2)
	if err != nil {
		t.Fatal(err)
	}
	if !prod.Gamma.IsEqual(g.Element().BaseScale(big.NewInt(5))) {
		t.Errorf("Mul did not add the gamma exponents correctly")
	}

	scaled := c1.Exp(big.NewInt(3))
	if !scaled.Gamma.IsEqual(g.Element().Scale(c1.Gamma, big.NewInt(3))) {
		t.Errorf("Exp did not scale gamma correctly")
	}
}

func TestCiphertextIsEqualRejectsShapeMismatch(t *testing.T) {
	g, pk := fixturePK(t)
	c1, err := ReEnc([]group.Element{elemFromInt(g, 1)}, big.NewInt(1), pk)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := ReEnc([]group.Element{elemFromInt(g, 1), elemFromInt(g, 1)}, big.NewInt(1), pk)
	if err != nil {
		t.Fatal(err)
	}
	if c1.IsEqual(c2) {
		t.Error("ciphertexts of different component counts should not be equal")
	}
}
