// Package mnemonic implements the 16-word recovery phrase: generation,
// validation, and derivation of a master key from the phrase.
//
// The dictionary is the 2048-word BIP39 English word list, but the format
// is bespoke: phrases carry no checksum word and are not interoperable
// with BIP39 wallets. Each word contributes 11 bits of entropy, 176 bits
// per phrase.
package mnemonic

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39/wordlists"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
)

const (
	// PhraseLength is the exact number of words in a recovery phrase.
	PhraseLength = 16

	// DictionarySize is the number of words in the dictionary. It is a
	// power of two, so uniform sampling with a modulo carries no bias.
	DictionarySize = 2048
)

var (
	dictOnce  sync.Once
	dictIndex map[string]struct{}
)

func dictionary() []string {
	return wordlists.English
}

func wordSet() map[string]struct{} {
	dictOnce.Do(func() {
		words := dictionary()
		dictIndex = make(map[string]struct{}, len(words))
		for _, w := range words {
			dictIndex[w] = struct{}{}
		}
	})
	return dictIndex
}

// Generate draws PhraseLength independent, uniformly random words from the
// dictionary using the system random source.
func Generate() ([]string, error) {
	words := dictionary()
	if len(words) != DictionarySize {
		return nil, fmt.Errorf("dictionary has %d words, want %d", len(words), DictionarySize)
	}

	buf := make([]byte, 2*PhraseLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to sample dictionary: %w", err)
	}

	phrase := make([]string, PhraseLength)
	for i := range phrase {
		idx := binary.BigEndian.Uint16(buf[2*i:]) % DictionarySize
		phrase[i] = words[idx]
	}
	return phrase, nil
}

// Validate reports whether candidate is exactly PhraseLength words and
// every word, lower-cased, is a dictionary member. No checksum is applied.
func Validate(candidate []string) bool {
	if len(candidate) != PhraseLength {
		return false
	}
	set := wordSet()
	for _, w := range candidate {
		if _, ok := set[strings.ToLower(strings.TrimSpace(w))]; !ok {
			return false
		}
	}
	return true
}

// Split breaks a whitespace-separated phrase string into words.
func Split(phrase string) []string {
	return strings.Fields(phrase)
}

// Secret renders the phrase as the canonical single secret string used for
// key derivation: lower-cased words joined by single spaces.
func Secret(phrase []string) string {
	normalized := make([]string, len(phrase))
	for i, w := range phrase {
		normalized[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return strings.Join(normalized, " ")
}

// DeriveKey turns a valid recovery phrase into a master key. The salt is
// the fixed cryptox.PhraseSalt constant; the phrase space itself provides
// the uniqueness a random salt would otherwise add.
func DeriveKey(phrase []string) ([]byte, error) {
	if !Validate(phrase) {
		return nil, fmt.Errorf("%w: invalid recovery phrase", common.ErrKeyDerivation)
	}
	return cryptox.DeriveKey([]byte(Secret(phrase)), []byte(cryptox.PhraseSalt), cryptox.DefaultIterations)
}
