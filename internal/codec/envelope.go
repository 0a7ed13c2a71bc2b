package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
)

// Envelope bundles one encrypted payload ready for storage. Salt is empty
// when the key was derived from a recovery phrase with the fixed salt.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
}

type envelopeJSON struct {
	Data string `json:"data"`
	IV   string `json:"iv"`
	Salt string `json:"salt"`
}

// MarshalEnvelope converts an envelope to its storable JSON string, with
// each binary field base64-encoded independently.
func MarshalEnvelope(env *Envelope) (string, error) {
	if env == nil || len(env.Ciphertext) == 0 {
		return "", fmt.Errorf("%w: envelope has no ciphertext", common.ErrValidation)
	}
	if len(env.Nonce) != cryptox.NonceSize {
		return "", fmt.Errorf("%w: envelope nonce must be %d bytes", common.ErrValidation, cryptox.NonceSize)
	}

	b, err := json.Marshal(envelopeJSON{
		Data: base64.StdEncoding.EncodeToString(env.Ciphertext),
		IV:   base64.StdEncoding.EncodeToString(env.Nonce),
		Salt: base64.StdEncoding.EncodeToString(env.Salt),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return string(b), nil
}

// UnmarshalEnvelope parses the storable JSON form back into an envelope.
// The round-trip is byte-exact for ciphertext, nonce, and salt.
func UnmarshalEnvelope(data string) (*Envelope, error) {
	var in envelopeJSON
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope", common.ErrValidation)
	}
	if in.Data == "" {
		return nil, fmt.Errorf("%w: envelope is missing data", common.ErrValidation)
	}
	if in.IV == "" {
		return nil, fmt.Errorf("%w: envelope is missing iv", common.ErrValidation)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope data is not valid base64", common.ErrValidation)
	}
	nonce, err := base64.StdEncoding.DecodeString(in.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope iv is not valid base64", common.ErrValidation)
	}
	salt, err := base64.StdEncoding.DecodeString(in.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope salt is not valid base64", common.ErrValidation)
	}

	return &Envelope{Ciphertext: ciphertext, Nonce: nonce, Salt: salt}, nil
}
