package zeroarg

import (
	"encoding/json"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
)

type elementVectorJSON struct {
	V []json.RawMessage
}

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

func decodeElementVector(raw elementVectorJSON, g group.Group) (gvec.ElementVector, error) {
	v, err := decodeElements(raw.V, g)
	if err != nil {
		return gvec.ElementVector{}, err
	}
	return gvec.ElementVector{G: g, V: v}, nil
}

type statementJSON struct {
	CA elementVectorJSON
	CB elementVectorJSON
	Y  *big.Int
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// field-by-field encoding; g supplies the concrete element type the
// commitments are unmarshalled into.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	ca, err := decodeElementVector(tmp.CA, g)
	if err != nil {
		return Statement{}, err
	}
	cb, err := decodeElementVector(tmp.CB, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{CA: ca, CB: cb, Y: tmp.Y}, nil
}

type argumentJSON struct {
	CA0    json.RawMessage
	CBm    json.RawMessage
	CD     []json.RawMessage
	APrime gvec.ScalarVector
	BPrime gvec.ScalarVector
	RPrime *big.Int
	SPrime *big.Int
	TPrime *big.Int
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
	cbm, err := decodeElement(tmp.CBm, g)
	if err != nil {
		return Argument{}, err
	}
	cd, err := decodeElements(tmp.CD, g)
	if err != nil {
		return Argument{}, err
	}
	return Argument{
		CA0: ca0, CBm: cbm, CD: cd,
		APrime: tmp.APrime, BPrime: tmp.BPrime,
		RPrime: tmp.RPrime, SPrime: tmp.SPrime, TPrime: tmp.TPrime,
	}, nil
}
