package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/credvault/credvault/internal/common"
)

// Unlock prompts for the master password, derives the key with the
// profile's salt, and opens a session when the key verifies. A wrong
// password is reported without distinguishing it from corruption anywhere
// a decryption is involved.
func (a *App) Unlock(ctx context.Context) error {
	if !a.isInitialized() {
		fmt.Println("No vault found. Run 'init' first.")
		return nil
	}
	if a.isLoggedIn() {
		fmt.Println("Vault is already unlocked.")
		return nil
	}

	password, err := getPassword("Enter master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	key, err := a.deriveKey(password)
	if err != nil {
		return err
	}

	if err := a.guard.CreateSession(ctx, key); err != nil {
		common.WipeByteArray(key)
		if errors.Is(err, common.ErrAuthentication) {
			fmt.Println("Incorrect password.")
			return nil
		}
		return err
	}

	a.masterKey = key
	fmt.Println("Vault unlocked.")
	return nil
}

// Lock closes the session and wipes the in-memory key.
func (a *App) Lock(ctx context.Context) error {
	if a.guard != nil {
		if err := a.guard.Logout(ctx); err != nil {
			return err
		}
	}
	a.forgetKey()
	fmt.Println("Vault locked.")
	return nil
}
