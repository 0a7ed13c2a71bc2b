// Package codec serializes the credential collection and the encrypted
// envelope to and from their canonical string forms.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/models"
)

// FormatVersion is the version stamped into serialized collections and
// export documents.
const FormatVersion = "1.0.0"

type credentialFile struct {
	Credentials []models.Credential `json:"credentials"`
	Version     string              `json:"version"`
}

// A pointer slice distinguishes a missing "credentials" key from an
// empty one during decoding.
type credentialFileIn struct {
	Credentials *[]models.Credential `json:"credentials"`
	Version     string               `json:"version"`
}

// MarshalCredentials encodes a collection as the canonical
// {"credentials":[...],"version":"1.0.0"} JSON string. Every entry is
// validated first; a structurally invalid credential aborts the whole
// operation with common.ErrValidation.
func MarshalCredentials(list []models.Credential) (string, error) {
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return "", err
		}
	}
	if list == nil {
		list = []models.Credential{}
	}

	b, err := json.Marshal(credentialFile{Credentials: list, Version: FormatVersion})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return string(b), nil
}

// UnmarshalCredentials is the inverse of MarshalCredentials. A missing
// credentials array or any structurally invalid entry fails the whole
// decode; invalid entries are never silently dropped.
func UnmarshalCredentials(data string) ([]models.Credential, error) {
	var in credentialFileIn
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return nil, fmt.Errorf("%w: malformed credential collection", common.ErrValidation)
	}
	if in.Credentials == nil {
		return nil, fmt.Errorf("%w: missing credentials array", common.ErrValidation)
	}

	list := *in.Credentials
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return nil, err
		}
	}
	return list, nil
}
