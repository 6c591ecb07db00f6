package manifest

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/veraison/go-cose"
)

// CWT claims carried in the protected header, binding who signed (issuer)
// and which index the signature is about (subject).
const (
	headerLabelCWTClaims = int64(15)
	cwtClaimIssuer       = int64(1)
	cwtClaimSubject      = int64(2)
)

var (
	ErrBlobSizeMismatch = errors.New("manifest: blob size does not match manifest")
	ErrDigestMismatch   = errors.New("manifest: blob digest does not match manifest")
	ErrNoPayload        = errors.New("manifest: signed message carries no payload")
)

// Signer produces COSE Sign1 manifests with a fixed issuer identity and
// ES256 key.
type Signer struct {
	issuer string
	keyID  []byte
	key    *ecdsa.PrivateKey
	codec  Codec
}

func NewSigner(issuer string, keyID string, key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, errors.New("manifest: signing key is required")
	}
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &Signer{issuer: issuer, keyID: []byte(keyID), key: key, codec: codec}, nil
}

// Sign serializes m and wraps it in a signed COSE Sign1 envelope.
func (s *Signer) Sign(m Manifest) ([]byte, error) {
	payload, err := s.codec.MarshalCBOR(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest payload: %w", err)
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, s.key)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: cose.AlgorithmES256,
				cose.HeaderLabelKeyID:     s.keyID,
				headerLabelCWTClaims: map[any]any{
					cwtClaimIssuer:  s.issuer,
					cwtClaimSubject: m.Name,
				},
			},
		},
		Payload: payload,
	}
	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("signing manifest: %w", err)
	}
	return msg.MarshalCBOR()
}

// Verify checks the envelope's signature against publicKey and decodes the
// manifest payload. It does not look at any blob; pair it with
// Manifest.CheckBlob when the blob is at hand.
func Verify(signed []byte, publicKey *ecdsa.PublicKey) (Manifest, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(signed); err != nil {
		return Manifest{}, fmt.Errorf("decoding signed manifest: %w", err)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return Manifest{}, err
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return Manifest{}, fmt.Errorf("verifying manifest signature: %w", err)
	}
	if msg.Payload == nil {
		return Manifest{}, ErrNoPayload
	}

	codec, err := NewCodec()
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := codec.UnmarshalCBOR(msg.Payload, &m); err != nil {
		return Manifest{}, fmt.Errorf("decoding manifest payload: %w", err)
	}
	return m, nil
}
