package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/credvault/credvault/internal/common"
	"github.com/credvault/credvault/internal/models"
)

// loadCurrent fetches the decrypted collection, treating a never-saved
// vault as empty.
func (a *App) loadCurrent(ctx context.Context) ([]models.Credential, error) {
	list, err := a.vault.Load(ctx, a.masterKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// Add prompts for a new credential and persists the updated collection.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	url, err := getSimpleText(a.reader, "Enter site URL", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password for this site", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	list, err := a.loadCurrent(ctx)
	if err != nil {
		return err
	}

	list = append(list, models.Credential{
		ID:        a.vault.NewCredentialID(),
		URL:       url,
		Username:  username,
		Password:  string(password),
		CreatedAt: time.Now().UTC(),
	})

	if err := a.vault.Save(ctx, list, a.masterKey, a.salt); err != nil {
		return err
	}

	fmt.Println("Saved.")
	return nil
}

// List prints the stored credentials without their passwords.
func (a *App) List(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	list, err := a.loadCurrent(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("Vault is empty.")
		return nil
	}

	for _, c := range list {
		fmt.Printf("%s  %s  %s\n", c.ID, c.URL, c.Username)
	}
	return nil
}

// Show prints a single credential, including its password.
func (a *App) Show(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Enter credential id", os.Stdout)
	if err != nil {
		return err
	}

	list, err := a.loadCurrent(ctx)
	if err != nil {
		return err
	}

	for _, c := range list {
		if c.ID == id {
			fmt.Printf("url:      %s\nusername: %s\npassword: %s\n", c.URL, c.Username, c.Password)
			return nil
		}
	}

	fmt.Println("No credential with that id.")
	return nil
}

// Delete removes a credential by id and persists the updated collection.
func (a *App) Delete(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Enter credential id to delete", os.Stdout)
	if err != nil {
		return err
	}

	list, err := a.loadCurrent(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, c := range list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(list) {
		fmt.Println("No credential with that id.")
		return nil
	}

	if err := a.vault.Save(ctx, kept, a.masterKey, a.salt); err != nil {
		return err
	}

	fmt.Println("Deleted.")
	return nil
}
