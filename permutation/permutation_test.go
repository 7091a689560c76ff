package permutation

import (
	"math/big"
	"testing"

	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/randsource"
)

func toyGroup() group.Group {
	return group.NewModPGroupFromInts("toy23", big.NewInt(23), big.NewInt(11), big.NewInt(2))
}

func elemFromInt(g group.Group, v int64) group.Element {
	return g.Element().SetBytes(big.NewInt(v).Bytes())
}

func TestGenPermutationIsBijection(t *testing.T) {
	src := &randsource.Fixed{Values: []*big.Int{big.NewInt(3), big.NewInt(1), big.NewInt(0), big.NewInt(0)}}
	p, err := GenPermutation(5, src)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, v := range p.Of {
		if v < 0 || v >= 5 || seen[v] {
			t.Fatalf("GenPermutation produced a non-bijective image: %v", p.Of)
		}
		seen[v] = true
	}
}

func TestPermutationInverse(t *testing.T) {
	p := Permutation{Of: []int{1, 3, 2, 0}} // reference test vector S4
	inv := p.Inverse()
	for i, pi := range p.Of {
		if inv.Of[pi] != i {
			t.Errorf("Inverse()[%d] = %d, want %d", pi, inv.Of[pi], i)
		}
	}
}

// TestGenPermutationKnownAnswerS4 drives Fisher-Yates with the exact
// draw sequence that produces reference test vector S4's permutation
// [1,3,2,0] for N=4: drawing (0,2,0) against bounds (4,3,2) swaps
// index 3 with 0, leaves index 2 in place, then swaps index 1 with 0.
func TestGenPermutationKnownAnswerS4(t *testing.T) {
	src := &randsource.Fixed{Values: []*big.Int{big.NewInt(0), big.NewInt(2), big.NewInt(0)}}
	p, err := GenPermutation(4, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 2, 0}
	for i, w := range want {
		if p.Of[i] != w {
			t.Errorf("GenPermutation = %v, want %v", p.Of, want)
			break
		}
	}
}

// TestGenShuffleKnownAnswerS4 reproduces reference test vector S4
// literally: p=23, q=11, g=2, pk=(8,13,4), messages and re-encryption
// randomness as below, permutation [1,3,2,0], shuffle randomness
// (3,9,4,2) ⇒ the stated shuffled ciphertext vector.
func TestGenShuffleKnownAnswerS4(t *testing.T) {
	g := toyGroup()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8), elemFromInt(g, 13), elemFromInt(g, 4)})
	if err != nil {
		t.Fatal(err)
	}

	messages := [][]int64{{4, 8, 3}, {16, 2, 9}, {3, 6, 4}, {13, 4, 18}}
	rhos := []int64{5, 10, 7, 2}
	C := make([]elgamal.Ciphertext, len(messages))
	for i, m := range messages {
		mVec := make([]group.Element, len(m))
		for j, v := range m {
			mVec[j] = elemFromInt(g, v)
		}
		c, err := elgamal.ReEnc(mVec, big.NewInt(rhos[i]), pk)
		if err != nil {
			t.Fatal(err)
		}
		C[i] = c
	}

	permSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(0), big.NewInt(2), big.NewInt(0)}}
	rhoSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(3), big.NewInt(9), big.NewInt(4), big.NewInt(2)}}
	shuffle, err := GenShuffle(C, pk, g.N(), permSrc, rhoSrc)
	if err != nil {
		t.Fatal(err)
	}

	wantPerm := []int{1, 3, 2, 0}
	for i, w := range wantPerm {
		if shuffle.Perm.Of[i] != w {
			t.Fatalf("permutation = %v, want %v", shuffle.Perm.Of, wantPerm)
		}
	}

	wantShuffled := [][]int64{
		{4, 12, 16, 6},
		{1, 13, 4, 18},
		{1, 3, 6, 4},
		{13, 2, 3, 1},
	}
	for i, want := range wantShuffled {
		got := shuffle.Shuffled[i]
		if !got.Gamma.IsEqual(elemFromInt(g, want[0])) {
			t.Errorf("Shuffled[%d].Gamma = %s, want %d", i, got.Gamma, want[0])
		}
		for j, w := range want[1:] {
			if !got.Phi[j].IsEqual(elemFromInt(g, w)) {
				t.Errorf("Shuffled[%d].Phi[%d] = %s, want %d", i, j, got.Phi[j], w)
			}
		}
	}

	if err := VerifyWitness(C, shuffle.Shuffled, pk, shuffle.Perm, shuffle.Randomness); err != nil {
		t.Errorf("VerifyWitness on the known-answer shuffle failed: %v", err)
	}
}

func TestGenShuffleAndVerifyWitness(t *testing.T) {
	g := toyGroup()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8), elemFromInt(g, 13), elemFromInt(g, 4)})
	if err != nil {
		t.Fatal(err)
	}

	messages := [][]int64{{4, 8, 3}, {16, 2, 9}, {3, 6, 4}, {13, 4, 18}}
	rhos := []int64{5, 10, 7, 2}
	C := make([]elgamal.Ciphertext, len(messages))
	for i, m := range messages {
		mVec := make([]group.Element, len(m))
		for j, v := range m {
			mVec[j] = elemFromInt(g, v)
		}
		c, err := elgamal.ReEnc(mVec, big.NewInt(rhos[i]), pk)
		if err != nil {
			t.Fatal(err)
		}
		C[i] = c
	}

	permSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(0)}}
	rhoSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(3), big.NewInt(9), big.NewInt(4), big.NewInt(2)}}
	shuffle, err := GenShuffle(C, pk, g.N(), permSrc, rhoSrc)
	if err != nil {
		t.Fatal(err)
	}

	if err := VerifyWitness(C, shuffle.Shuffled, pk, shuffle.Perm, shuffle.Randomness); err != nil {
		t.Errorf("VerifyWitness on a freshly generated shuffle failed: %v", err)
	}
}

func TestVerifyWitnessRejectsTamperedShuffle(t *testing.T) {
	g := toyGroup()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8), elemFromInt(g, 13)})
	if err != nil {
		t.Fatal(err)
	}
	m := []group.Element{elemFromInt(g, 4), elemFromInt(g, 8)}
	c0, err := elgamal.ReEnc(m, big.NewInt(1), pk)
	if err != nil {
		t.Fatal(err)
	}
	c1, err := elgamal.ReEnc(m, big.NewInt(2), pk)
	if err != nil {
		t.Fatal(err)
	}
	C := []elgamal.Ciphertext{c0, c1}

	permSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(1)}}
	rhoSrc := &randsource.Fixed{Values: []*big.Int{big.NewInt(3), big.NewInt(4)}}
	shuffle, err := GenShuffle(C, pk, g.N(), permSrc, rhoSrc)
	if err != nil {
		t.Fatal(err)
	}

	tampered := make([]*big.Int, len(shuffle.Randomness))
	copy(tampered, shuffle.Randomness)
	tampered[0] = new(big.Int).Add(tampered[0], big.NewInt(1))

	if err := VerifyWitness(C, shuffle.Shuffled, pk, shuffle.Perm, tampered); err == nil {
		t.Error("VerifyWitness should reject tampered randomness")
	}
}

func TestVerifyWitnessRejectsSizeMismatch(t *testing.T) {
	g := toyGroup()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8)})
	if err != nil {
		t.Fatal(err)
	}
	m := []group.Element{elemFromInt(g, 4)}
	c0, err := elgamal.ReEnc(m, big.NewInt(1), pk)
	if err != nil {
		t.Fatal(err)
	}
	err = VerifyWitness([]elgamal.Ciphertext{c0}, []elgamal.Ciphertext{c0, c0}, pk, Permutation{Of: []int{0}}, []*big.Int{big.NewInt(1)})
	if err == nil {
		t.Error("expected shape-mismatch error")
	}
}
