package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/saikai-app/cardvault/internal/backend"
	"github.com/saikai-app/cardvault/internal/models"
)

// backendTimeout bounds every call to the CardMatch service.
const backendTimeout = 12 * time.Second

// Status fetches the server's registered-category feed and prints the
// merged local/server view. Entries from another device show up with no
// card id: their plaintext never existed here.
func (a *App) Status(ctx context.Context) error {
	local, err := a.cards.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	serverCards, err := a.apiClient.GetStatuses(callCtx)
	if err != nil {
		printBackendError(err)
		return err
	}

	statuses := a.reconciler.Merge(local, serverCards)
	if len(statuses) == 0 {
		fmt.Println("Nothing registered on any device.")
		return nil
	}

	for _, st := range statuses {
		switch st.Origin {
		case models.OriginThisDevice:
			fmt.Printf("%-14s this device   card %s  expires %s\n", st.Category, st.CardID, st.ExpiresAt.Format("2006-01-02 15:04"))
		case models.OriginOtherDevice:
			fmt.Printf("%-14s other device  registered %s  expires %s\n", st.Category, st.RegisteredAt.Format("2006-01-02 15:04"), st.ExpiresAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// Submit uploads the hash projection of every live card. Neither plaintext
// nor ciphertext is part of the payload.
func (a *App) Submit(ctx context.Context) error {
	subs, err := a.cards.Submissions(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(subs) == 0 {
		fmt.Println("No live cards to submit.")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	accepted, err := a.apiClient.SubmitCards(callCtx, subs)
	if err != nil {
		printBackendError(err)
		return err
	}

	fmt.Printf("Submitted %d card(s), server accepted %d.\n", len(subs), accepted)
	return nil
}

func printBackendError(err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		fmt.Println("Session expired. Sign in through the app and try again.")
	case errors.Is(err, backend.ErrUnavailable):
		fmt.Println("Server unreachable. Try again later.")
	default:
		log.Printf("error: %v", err)
	}
}
