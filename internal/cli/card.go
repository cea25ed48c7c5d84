package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/models"
)

// Register prompts for a category and value and registers a new card. The
// card's hash is not uploaded here; that is what the submit command is for.
func (a *App) Register(ctx context.Context) error {
	prompt := fmt.Sprintf("Enter category (%s)", joinCategories())
	category, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	value, err := GetSimpleText(a.reader, "Enter the value to search for", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	displayName, err := GetSimpleText(a.reader, "Enter a display name (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	notes, err := GetMultiline(a.reader, "Enter notes (optional):", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	card, err := a.cards.Register(ctx, models.Category(category), value, displayName, notes, a.config.CardTTL)
	if err != nil {
		printRegisterError(err)
		return err
	}

	fmt.Printf("Registered %s card %s (expires %s)\n", card.Category, card.ID, card.ExpiresAt.Format("2006-01-02 15:04"))
	fmt.Println("Run 'submit' to upload its hash for matching.")
	return nil
}

// printRegisterError explains business-rule rejections in user terms;
// everything else is logged as-is.
func printRegisterError(err error) {
	var cdErr *common.CooldownError
	switch {
	case errors.As(err, &cdErr):
		fmt.Printf("The %s category is in cooldown until %s.\n", cdErr.Category, cdErr.EndsAt.Format("2006-01-02 15:04"))
	case errors.Is(err, common.ErrDuplicateRegistration):
		fmt.Println("You already have a live card for this exact value.")
	case errors.Is(err, common.ErrInvalidInput):
		fmt.Println("Invalid input:", err)
	default:
		log.Printf("error: %v", err)
	}
}

// List prints one line per live card: id, category, redacted label, expiry.
// Plaintext stays encrypted; the redacted label is enough to recognize a
// card.
func (a *App) List(ctx context.Context) error {
	cards, err := a.cards.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(cards) == 0 {
		fmt.Println("No live cards.")
		return nil
	}

	for _, c := range cards {
		fmt.Printf("%s  %-14s %-10s expires %s\n", c.ID, c.Category, c.DisplayLabel, c.ExpiresAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Show decrypts and displays a single card by ID.
func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter card id to show", os.Stdout)
	if err != nil {
		return err
	}

	content, err := a.cards.Reveal(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			fmt.Println("No such card.")
		case errors.Is(err, common.ErrAuthenticationFailed):
			fmt.Println("This card cannot be decrypted on this device.")
		default:
			log.Printf("error: %v", err)
		}
		return err
	}

	fmt.Printf("Value: %s\n", content.Value)
	if content.DisplayName != "" {
		fmt.Printf("Display name: %s\n", content.DisplayName)
	}
	if content.Notes != "" {
		fmt.Printf("Notes: %s\n", content.Notes)
	}
	return nil
}

// Delete removes a card by its identifier, prompting the user for the ID.
// The category's cooldown stays in effect.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter card id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.cards.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

// Cooldowns lists every category currently locked for re-registration.
func (a *App) Cooldowns(ctx context.Context) error {
	records, err := a.tracker.History(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	locked := false
	for _, rec := range records {
		if err := a.tracker.CanRegister(ctx, rec.Category); err != nil {
			fmt.Printf("%-14s locked until %s\n", rec.Category, rec.CooldownEndsAt.Format("2006-01-02 15:04"))
			locked = true
		}
	}
	if !locked {
		fmt.Println("No categories in cooldown.")
	}
	return nil
}

// Wipe erases every card, the registration history and the device key after
// an explicit confirmation.
func (a *App) Wipe(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "This erases all local cards and the device key. Type 'yes' to continue", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.cards.Wipe(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.keyManager.Reset(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("All local card data erased.")
	return nil
}

func joinCategories() string {
	cats := models.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
