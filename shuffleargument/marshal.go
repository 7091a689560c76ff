package shuffleargument

import (
	"encoding/json"

	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/multiexp"
	"github.com/shufflemix/mixnet/product"
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
	C      []json.RawMessage
	Cprime []json.RawMessage
	PK     json.RawMessage
	Rows   int
	Cols   int
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// encoding; g supplies the concrete element type.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	c, err := decodeCiphertexts(tmp.C, g)
	if err != nil {
		return Statement{}, err
	}
	cprime, err := decodeCiphertexts(tmp.Cprime, g)
	if err != nil {
		return Statement{}, err
	}
	pk, err := elgamal.PublicKeyUnmarshalJSON(tmp.PK, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{C: c, Cprime: cprime, PK: pk, Rows: tmp.Rows, Cols: tmp.Cols}, nil
}

func decodeCiphertexts(raws []json.RawMessage, g group.Group) ([]elgamal.Ciphertext, error) {
	out := make([]elgamal.Ciphertext, len(raws))
	for i, r := range raws {
		c, err := elgamal.CiphertextUnmarshalJSON(r, g)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

type argumentJSON struct {
	CA           struct{ V []json.RawMessage }
	CB           struct{ V []json.RawMessage }
	CBFlatCommit json.RawMessage
	ProductArg   json.RawMessage
	MultiExpArg  json.RawMessage
}

// ArgumentUnmarshalJSON recovers an Argument from its canonical
// encoding, recursing into product/multiexp's own unmarshallers.
func ArgumentUnmarshalJSON(data []byte, g group.Group) (Argument, error) {
	var tmp argumentJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Argument{}, err
	}
	ca, err := decodeElements(tmp.CA.V, g)
	if err != nil {
		return Argument{}, err
	}
	cb, err := decodeElements(tmp.CB.V, g)
	if err != nil {
		return Argument{}, err
	}
	cbFlat, err := decodeElement(tmp.CBFlatCommit, g)
	if err != nil {
		return Argument{}, err
	}
	productArg, err := product.ArgumentUnmarshalJSON(tmp.ProductArg, g)
	if err != nil {
		return Argument{}, err
	}
	multiExpArg, err := multiexp.ArgumentUnmarshalJSON(tmp.MultiExpArg, g)
	if err != nil {
		return Argument{}, err
	}
	return Argument{
		CA:           gvec.ElementVector{G: g, V: ca},
		CB:           gvec.ElementVector{G: g, V: cb},
		CBFlatCommit: cbFlat,
		ProductArg:   productArg,
		MultiExpArg:  multiExpArg,
	}, nil
}
