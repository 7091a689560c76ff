package elgamal

import (
	"encoding/json"

	"github.com/shufflemix/mixnet/group"
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

type ciphertextJSON struct {
	Gamma json.RawMessage
	Phi   []json.RawMessage
}

// CiphertextUnmarshalJSON recovers a Ciphertext from its canonical
// encoding; g supplies the concrete element type.
func CiphertextUnmarshalJSON(data []byte, g group.Group) (Ciphertext, error) {
	var tmp ciphertextJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return Ciphertext{}, err
	}
	gamma, err := decodeElement(tmp.Gamma, g)
	if err != nil {
		return Ciphertext{}, err
	}
	phi, err := decodeElements(tmp.Phi, g)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext{G: g, Gamma: gamma, Phi: phi}, nil
}

// CiphertextsUnmarshalJSON recovers a ciphertext list from its
// canonical encoding.
func CiphertextsUnmarshalJSON(data []byte, g group.Group) ([]Ciphertext, error) {
	var tmp []json.RawMessage
	if err := json.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}
	out := make([]Ciphertext, len(tmp))
	for i, r := range tmp {
		c, err := CiphertextUnmarshalJSON(r, g)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

type publicKeyJSON struct {
	PK []json.RawMessage
}

// PublicKeyUnmarshalJSON recovers a PublicKey from its canonical
// encoding; g supplies the concrete element type.
func PublicKeyUnmarshalJSON(data []byte, g group.Group) (PublicKey, error) {
	var tmp publicKeyJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return PublicKey{}, err
	}
	pk, err := decodeElements(tmp.PK, g)
	if err != nil {
		return PublicKey{}, err
	}
	return NewPublicKey(g, pk)
}
