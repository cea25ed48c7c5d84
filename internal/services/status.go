package services

import (
	"github.com/saikai-app/cardvault/internal/models"
)

// Reconciler merges the local card view with the server-reported
// registration feed into a unified status list for display.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Merge emits one entry per local live card (origin this_device) plus one
// entry per server-reported category with no local card (origin
// other_device, server timestamps). Categories registered on neither side
// are omitted. Merge is pure: it never touches the store.
//
// The server feed carries categories and timestamps only, never another
// device's hash, so matching is by category.
func (r *Reconciler) Merge(localCards []models.LocalInterestCard, serverCards []models.ServerCard) []models.RemoteCardStatus {
	statuses := make([]models.RemoteCardStatus, 0, len(localCards)+len(serverCards))

	localByCategory := make(map[models.Category]bool, len(localCards))
	for i := range localCards {
		c := &localCards[i]
		localByCategory[c.Category] = true
		statuses = append(statuses, models.RemoteCardStatus{
			Category:     c.Category,
			Registered:   true,
			RegisteredAt: c.CreatedAt,
			ExpiresAt:    c.ExpiresAt,
			Origin:       models.OriginThisDevice,
			CardID:       c.ID,
		})
	}

	for _, sc := range serverCards {
		if localByCategory[sc.Category] {
			continue
		}
		statuses = append(statuses, models.RemoteCardStatus{
			Category:     sc.Category,
			Registered:   true,
			RegisteredAt: sc.RegisteredAt,
			ExpiresAt:    sc.ExpiresAt,
			Origin:       models.OriginOtherDevice,
		})
	}

	return statuses
}
