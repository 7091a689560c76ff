package multiexp

import (
	"encoding/json"
	"math/big"

	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
)

func decodeElement(raw json.RawMessage, g group.Group) (group.Element, error) {
	e := g.Element()
	if err := e.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeElements(raws []json.RawMessage, g group.Group) ([]group.Element, error) {
	out := make([]group.Element, len(raws))
	for i, r := range raws {
		e, err := decodeElement(r, g)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

type statementJSON struct {
	C    []json.RawMessage
	PK   json.RawMessage
	CA   struct{ V []json.RawMessage }
	CBar json.RawMessage
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// encoding; g supplies the concrete element type.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	c := make([]elgamal.Ciphertext, len(tmp.C))
	for i, r := range tmp.C {
		ct, err := elgamal.CiphertextUnmarshalJSON(r, g)
		if err != nil {
			return Statement{}, err
		}
		c[i] = ct
	}
	pk, err := elgamal.PublicKeyUnmarshalJSON(tmp.PK, g)
	if err != nil {
		return Statement{}, err
	}
	ca, err := decodeElements(tmp.CA.V, g)
	if err != nil {
		return Statement{}, err
	}
	cBar, err := elgamal.CiphertextUnmarshalJSON(tmp.CBar, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		C: c, PK: pk, CA: gvec.ElementVector{G: g, V: ca}, CBar: cBar,
	}, nil
}

type argumentJSON struct {
	CA0     json.RawMessage
	Psi0    json.RawMessage
	W       json.RawMessage
	Psi0Rho json.RawMessage
	TauResp *big.Int
	AResp   gvec.ScalarVector
	RResp   *big.Int
}

// ArgumentUnmarshalJSON recovers an Argument from its canonical
// encoding; g supplies the concrete element type.
func ArgumentUnmarshalJSON(data []byte, g group.Group) (Argument, error) {
	var tmp argumentJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Argument{}, err
	}
	ca0, err := decodeElement(tmp.CA0, g)
	if err != nil {
		return Argument{}, err
	}
	psi0, err := elgamal.CiphertextUnmarshalJSON(tmp.Psi0, g)
	if err != nil {
		return Argument{}, err
	}
	w, err := elgamal.CiphertextUnmarshalJSON(tmp.W, g)
	if err != nil {
		return Argument{}, err
	}
	psi0Rho, err := elgamal.CiphertextUnmarshalJSON(tmp.Psi0Rho, g)
	if err != nil {
		return Argument{}, err
	}
	return Argument{
		CA0: ca0, Psi0: psi0, W: w, Psi0Rho: psi0Rho, TauResp: tmp.TauResp,
		AResp: tmp.AResp, RResp: tmp.RResp,
	}, nil
}
