package hadamard

import (
	"encoding/json"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/zeroarg"
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
	Cb json.RawMessage
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// encoding; g supplies the concrete element type.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	ca, err := decodeElementVector(tmp.CA, g)
	if err != nil {
		return Statement{}, err
	}
	cb, err := decodeElement(tmp.Cb, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{CA: ca, Cb: cb}, nil
}

type argumentJSON struct {
	CB      []json.RawMessage
	ZeroArg json.RawMessage
}

// ArgumentUnmarshalJSON recovers an Argument from its canonical
// encoding, recursing into zeroarg's own unmarshaller for the nested
// sub-argument.
func ArgumentUnmarshalJSON(data []byte, g group.Group) (Argument, error) {
	var tmp argumentJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Argument{}, err
	}
	cb, err := decodeElements(tmp.CB, g)
	if err != nil {
		return Argument{}, err
	}
	zeroArg, err := zeroarg.ArgumentUnmarshalJSON(tmp.ZeroArg, g)
	if err != nil {
		return Argument{}, err
	}
	return Argument{CB: cb, ZeroArg: zeroArg}, nil
}
