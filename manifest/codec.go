package manifest

import (
	"github.com/fxamacker/cbor/v2"
)

// Codec pins the CBOR encoding to the deterministic core profile, so the
// same manifest always serializes to the same bytes and signatures stay
// reproducible across encoder versions.
type Codec struct {
	em cbor.EncMode
	dm cbor.DecMode
}

func NewCodec() (Codec, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return Codec{}, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return Codec{}, err
	}
	return Codec{em: em, dm: dm}, nil
}

func (c Codec) MarshalCBOR(v any) ([]byte, error) {
	return c.em.Marshal(v)
}

func (c Codec) UnmarshalCBOR(b []byte, v any) error {
	return c.dm.Unmarshal(b, v)
}
