package product

import (
	"encoding/json"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/hadamard"
	"github.com/shufflemix/mixnet/svp"
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
	CA struct{ V []json.RawMessage }
	B  *big.Int
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// encoding; g supplies the concrete element type.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	ca, err := decodeElements(tmp.CA.V, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{CA: gvec.ElementVector{G: g, V: ca}, B: tmp.B}, nil
}

type argumentJSON struct {
	Short bool
	SVP   json.RawMessage
	Cb    json.RawMessage
	Had   json.RawMessage
}

// ArgumentUnmarshalJSON recovers an Argument from its canonical
// encoding, recursing into svp/hadamard's own unmarshallers. The Long
// variant's Cb/Had fields are left zero-valued when Short is true,
// matching the Short/Long tagged-variant representation.
func ArgumentUnmarshalJSON(data []byte, g group.Group) (Argument, error) {
	var tmp argumentJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Argument{}, err
	}
	svpArg, err := svp.ArgumentUnmarshalJSON(tmp.SVP, g)
	if err != nil {
		return Argument{}, err
	}
	arg := Argument{Short: tmp.Short, SVP: svpArg}
	if tmp.Short {
		return arg, nil
	}
	cb, err := decodeElement(tmp.Cb, g)
	if err != nil {
		return Argument{}, err
	}
	had, err := hadamard.ArgumentUnmarshalJSON(tmp.Had, g)
	if err != nil {
		return Argument{}, err
	}
	arg.Cb = cb
	arg.Had = had
	return arg, nil
}
