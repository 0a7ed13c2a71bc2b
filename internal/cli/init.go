package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/mnemonic"
	"github.com/credvault/credvault/internal/models"
)

// Init runs first-time vault setup: it creates the account profile with a
// random key derivation salt, persists an empty encrypted vault, shows the
// 16-word recovery phrase exactly once, and opens a session.
func (a *App) Init(ctx context.Context) error {
	if a.isInitialized() {
		fmt.Println("Vault is already initialized.")
		return nil
	}

	accountID, err := getSimpleText(a.reader, "Choose an account name", os.Stdout)
	if err != nil {
		return err
	}
	if accountID == "" {
		return fmt.Errorf("%w: account name must not be empty", common.ErrValidation)
	}

	password, err := getPassword("Choose a master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat the master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if len(password) == 0 || !bytes.Equal(password, confirm) {
		return fmt.Errorf("%w: passwords are empty or do not match", common.ErrValidation)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key, err := cryptox.DeriveKey(password, salt, a.config.Iterations)
	if err != nil {
		return err
	}

	profile := &models.UserProfile{
		AccountID:         accountID,
		KeyDerivationSalt: base64.StdEncoding.EncodeToString(salt),
		Verifier:          base64.StdEncoding.EncodeToString(cryptox.MakeVerifier(key)),
		CreatedAt:         time.Now().UTC(),
	}
	if err := a.vault.SaveProfile(ctx, profile); err != nil {
		common.WipeByteArray(key)
		return err
	}
	if err := a.vault.Save(ctx, nil, key, salt); err != nil {
		common.WipeByteArray(key)
		return err
	}

	phrase, err := mnemonic.Generate()
	if err != nil {
		common.WipeByteArray(key)
		return err
	}

	fmt.Println()
	fmt.Println("Write down your recovery phrase. It is shown only once and")
	fmt.Println("is the only way to restore an exported backup without the password:")
	fmt.Println()
	fmt.Println("  " + strings.Join(phrase, " "))
	fmt.Println()

	if err := a.armGuard(ctx, profile); err != nil {
		common.WipeByteArray(key)
		return err
	}
	if err := a.guard.CreateSession(ctx, key); err != nil {
		common.WipeByteArray(key)
		return err
	}

	a.masterKey = key
	a.salt = salt
	fmt.Println("Vault initialized and unlocked.")
	return nil
}
