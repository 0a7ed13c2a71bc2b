package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/mnemonic"
)

// Export writes the current encrypted vault blob into a typed export file.
// The blob stays under the master password key; the file can only be
// imported with the same password.
func (a *App) Export(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	filename, err := getSimpleText(a.reader, "Enter export file name", os.Stdout)
	if err != nil {
		return err
	}

	blob, err := a.vault.EncryptedBlob(ctx)
	if err != nil {
		return err
	}
	if err := a.vault.ExportToFile(ctx, filename, blob); err != nil {
		return err
	}

	fmt.Println("Exported.")
	return nil
}

// Recovery writes a backup re-encrypted under the user's recovery phrase,
// so it can be restored on a machine where the master password is unknown.
func (a *App) Recovery(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	phraseText, err := getSimpleText(a.reader, "Enter your 16-word recovery phrase", os.Stdout)
	if err != nil {
		return err
	}
	phrase := mnemonic.Split(phraseText)
	if !mnemonic.Validate(phrase) {
		return fmt.Errorf("%w: that is not a valid recovery phrase", common.ErrValidation)
	}

	filename, err := getSimpleText(a.reader, "Enter backup file name", os.Stdout)
	if err != nil {
		return err
	}

	blob, err := a.vault.ReencryptForPhrase(ctx, a.masterKey, phrase)
	if err != nil {
		return err
	}
	if err := a.vault.ExportToFile(ctx, filename, blob); err != nil {
		return err
	}

	fmt.Println("Recovery backup written.")
	return nil
}

// Import validates an export file, decrypts it with the secret that
// protects it (master password or recovery phrase), and merges the result
// into the current vault.
func (a *App) Import(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	filename, err := getSimpleText(a.reader, "Enter file to import", os.Stdout)
	if err != nil {
		return err
	}

	blob, err := a.vault.ImportFromFile(filename)
	if err != nil {
		return err
	}

	secret, err := getSimpleText(a.reader, "Enter the password or recovery phrase protecting the file", os.Stdout)
	if err != nil {
		return err
	}

	merged, err := a.vault.ImportAndMerge(ctx, blob, secret, a.masterKey, a.salt)
	if err != nil {
		return err
	}

	fmt.Printf("Imported. Vault now holds %d credentials.\n", len(merged))
	return nil
}
