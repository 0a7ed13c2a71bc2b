package mnemonic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
)

func TestGenerate_ProducesValidPhrase(t *testing.T) {
	phrase, err := Generate()
	require.NoError(t, err)
	require.Len(t, phrase, PhraseLength)
	require.True(t, Validate(phrase))

	set := wordSet()
	for _, w := range phrase {
		_, ok := set[w]
		require.True(t, ok, "word %q not in dictionary", w)
	}
}

func TestGenerate_PhrasesDiffer(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	require.NotEqual(t, Secret(a), Secret(b))
}

func TestValidate(t *testing.T) {
	valid, err := Generate()
	require.NoError(t, err)

	tests := []struct {
		name   string
		phrase []string
		want   bool
	}{
		{name: "generated phrase", phrase: valid, want: true},
		{name: "upper-cased words accepted", phrase: upper(valid), want: true},
		{name: "too short", phrase: valid[:PhraseLength-1], want: false},
		{name: "too long", phrase: append(append([]string{}, valid...), valid[0]), want: false},
		{name: "non-dictionary word", phrase: replaceFirst(valid, "qqqqq"), want: false},
		{name: "empty", phrase: nil, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Validate(tc.phrase))
		})
	}
}

func TestDeriveKey_DeterministicAndCaseInsensitive(t *testing.T) {
	phrase, err := Generate()
	require.NoError(t, err)

	key1, err := DeriveKey(phrase)
	require.NoError(t, err)
	key2, err := DeriveKey(upper(phrase))
	require.NoError(t, err)
	require.Equal(t, key1, key2)
	require.Len(t, key1, cryptox.KeySize)
}

func TestDeriveKey_AlteredWordFailsDecryption(t *testing.T) {
	phrase, err := Generate()
	require.NoError(t, err)

	key, err := DeriveKey(phrase)
	require.NoError(t, err)

	ciphertext, nonce, err := cryptox.Encrypt([]byte("payload"), key)
	require.NoError(t, err)

	// Change a single word to another dictionary word.
	altered := append([]string{}, phrase...)
	words := dictionary()
	replacement := words[0]
	if altered[3] == replacement {
		replacement = words[1]
	}
	altered[3] = replacement

	alteredKey, err := DeriveKey(altered)
	require.NoError(t, err)

	_, err = cryptox.Decrypt(ciphertext, nonce, alteredKey)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestDeriveKey_RejectsInvalidPhrase(t *testing.T) {
	_, err := DeriveKey([]string{"abandon", "ability"})
	require.ErrorIs(t, err, common.ErrKeyDerivation)
}

func TestSplitAndSecret(t *testing.T) {
	phrase := []string{"Abandon", "ability "}
	require.Equal(t, "abandon ability", Secret(phrase))
	require.Equal(t, []string{"a", "b", "c"}, Split("  a b \t c\n"))
}

func upper(phrase []string) []string {
	out := make([]string, len(phrase))
	for i, w := range phrase {
		out[i] = strings.ToUpper(w)
	}
	return out
}

func replaceFirst(phrase []string, w string) []string {
	out := append([]string{}, phrase...)
	out[0] = w
	return out
}
