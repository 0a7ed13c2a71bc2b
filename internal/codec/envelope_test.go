package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
)

func TestEnvelope_RoundTripExact(t *testing.T) {
	env := &Envelope{
		Ciphertext: common.GenerateRandByteArray(64),
		Nonce:      common.GenerateRandByteArray(cryptox.NonceSize),
		Salt:       common.GenerateRandByteArray(cryptox.SaltSize),
	}

	data, err := MarshalEnvelope(env)
	require.NoError(t, err)

	got, err := UnmarshalEnvelope(data)
	require.NoError(t, err)
	require.Equal(t, env.Ciphertext, got.Ciphertext)
	require.Equal(t, env.Nonce, got.Nonce)
	require.Equal(t, env.Salt, got.Salt)
}

func TestEnvelope_EmptySaltAllowed(t *testing.T) {
	env := &Envelope{
		Ciphertext: common.GenerateRandByteArray(16),
		Nonce:      common.GenerateRandByteArray(cryptox.NonceSize),
	}

	data, err := MarshalEnvelope(env)
	require.NoError(t, err)

	got, err := UnmarshalEnvelope(data)
	require.NoError(t, err)
	require.Empty(t, got.Salt)
}

func TestMarshalEnvelope_FieldNames(t *testing.T) {
	env := &Envelope{
		Ciphertext: []byte{1, 2, 3},
		Nonce:      common.GenerateRandByteArray(cryptox.NonceSize),
		Salt:       []byte{4, 5},
	}

	data, err := MarshalEnvelope(env)
	require.NoError(t, err)

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	require.Contains(t, doc, "data")
	require.Contains(t, doc, "iv")
	require.Contains(t, doc, "salt")
}

func TestMarshalEnvelope_Errors(t *testing.T) {
	_, err := MarshalEnvelope(nil)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = MarshalEnvelope(&Envelope{Ciphertext: []byte{1}, Nonce: []byte{1, 2}})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUnmarshalEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "garbage"},
		{name: "missing data", data: `{"iv":"AAAA"}`},
		{name: "missing iv", data: `{"data":"AAAA"}`},
		{name: "bad base64 data", data: `{"data":"!!!","iv":"AAAA"}`},
		{name: "bad base64 iv", data: `{"data":"AAAA","iv":"!!!"}`},
		{name: "bad base64 salt", data: `{"data":"AAAA","iv":"AAAA","salt":"!!!"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalEnvelope(tc.data)
			require.ErrorIs(t, err, common.ErrValidation)
		})
	}
}
