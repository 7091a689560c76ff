package svp

import (
	"encoding/json"
	"math/big"

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

type statementJSON struct {
	CA json.RawMessage
	B  *big.Int
}

// StatementUnmarshalJSON recovers a Statement from its canonical
// encoding; g supplies the concrete element type.
func StatementUnmarshalJSON(data []byte, g group.Group) (Statement, error) {
	var tmp statementJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Statement{}, err
	}
	ca, err := decodeElement(tmp.CA, g)
	if err != nil {
		return Statement{}, err
	}
	return Statement{CA: ca, B: tmp.B}, nil
}

type argumentJSON struct {
	CD, CDelta, CBigDelta json.RawMessage
	ATilde, BTilde        gvec.ScalarVector
	RTilde, STilde        *big.Int
}

// ArgumentUnmarshalJSON recovers an Argument from its canonical
// encoding; g supplies the concrete element type.
func ArgumentUnmarshalJSON(data []byte, g group.Group) (Argument, error) {
	var tmp argumentJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Argument{}, err
	}
	cd, err := decodeElement(tmp.CD, g)
	if err != nil {
		return Argument{}, err
	}
	cDelta, err := decodeElement(tmp.CDelta, g)
	if err != nil {
		return Argument{}, err
	}
	cBigDelta, err := decodeElement(tmp.CBigDelta, g)
	if err != nil {
		return Argument{}, err
	}
	return Argument{
		CD: cd, CDelta: cDelta, CBigDelta: cBigDelta,
		ATilde: tmp.ATilde, BTilde: tmp.BTilde,
		RTilde: tmp.RTilde, STilde: tmp.STilde,
	}, nil
}
