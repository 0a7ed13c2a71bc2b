package vault

import (
	"github.com/credvault/credvault/internal/models"
)

// MergeCredentials combines an imported collection into the existing one,
// keyed by (origin, username). For a key present on both sides the record
// with the later modification time survives, ties favoring the imported
// side since import is explicit user intent; the surviving imported record
// keeps the local ID and is stamped with the merge time. Keys present only
// in imported are appended with a fresh ID, since imported IDs are not
// trusted to be collision-free. Nothing is ever deleted, and the result is
// deterministic for identical inputs.
func (s *Service) MergeCredentials(existing, imported []models.Credential) []models.Credential {
	mergedAt := s.now().UTC()

	// Last occurrence wins within the imported side itself.
	importedByKey := make(map[string]models.Credential, len(imported))
	for _, in := range imported {
		importedByKey[in.MergeKey()] = in
	}

	existingKeys := make(map[string]struct{}, len(existing))
	for i := range existing {
		existingKeys[existing[i].MergeKey()] = struct{}{}
	}

	merged := make([]models.Credential, 0, len(existing)+len(imported))
	resolved := make(map[string]struct{}, len(existing))

	for _, local := range existing {
		key := local.MergeKey()
		in, conflict := importedByKey[key]
		_, done := resolved[key]
		if !conflict || done {
			merged = append(merged, local)
			continue
		}
		resolved[key] = struct{}{}

		if in.LastModified().Before(local.LastModified()) {
			merged = append(merged, local)
			continue
		}

		winner := in
		winner.ID = local.ID
		winner.CreatedAt = local.CreatedAt
		winner.UpdatedAt = mergedAt
		merged = append(merged, winner)
	}

	appended := make(map[string]struct{}, len(imported))
	for _, in := range imported {
		key := in.MergeKey()
		if _, ok := existingKeys[key]; ok {
			continue
		}
		if _, ok := appended[key]; ok {
			continue
		}
		appended[key] = struct{}{}

		added := in
		added.ID = s.newID()
		added.UpdatedAt = mergedAt
		merged = append(merged, added)
	}

	return merged
}
