package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikai-app/cardvault/internal/models"
)

func localCard(category models.Category, createdAt time.Time) models.LocalInterestCard {
	return models.LocalInterestCard{
		ID:          "card-" + string(category),
		Category:    category,
		ContentHash: "hash-" + string(category),
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(72 * time.Hour),
	}
}

func TestMerge_LocalAndServerCombined(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	serverAt := now.Add(-24 * time.Hour)

	local := []models.LocalInterestCard{localCard(models.CategoryEmail, now)}
	server := []models.ServerCard{
		{Category: models.CategoryEmail, RegisteredAt: serverAt, ExpiresAt: serverAt.Add(72 * time.Hour)},
		{Category: models.CategoryPhone, RegisteredAt: serverAt, ExpiresAt: serverAt.Add(72 * time.Hour)},
	}

	got := NewReconciler().Merge(local, server)
	require.Len(t, got, 2)

	byCategory := map[models.Category]models.RemoteCardStatus{}
	for _, st := range got {
		byCategory[st.Category] = st
	}

	email := byCategory[models.CategoryEmail]
	assert.True(t, email.Registered)
	assert.Equal(t, models.OriginThisDevice, email.Origin)
	assert.Equal(t, now, email.RegisteredAt, "local card wins with local timestamps")
	assert.Equal(t, "card-email", email.CardID)

	phone := byCategory[models.CategoryPhone]
	assert.True(t, phone.Registered)
	assert.Equal(t, models.OriginOtherDevice, phone.Origin)
	assert.Equal(t, serverAt, phone.RegisteredAt, "server-only category keeps server timestamps")
	assert.Empty(t, phone.CardID, "no card id for a card this device cannot decrypt")
}

func TestMerge_UnregisteredCategoriesOmitted(t *testing.T) {
	got := NewReconciler().Merge(nil, nil)
	assert.Empty(t, got, "no isRegistered=false placeholders")
}

func TestMerge_ServerOnly(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	got := NewReconciler().Merge(nil, []models.ServerCard{
		{Category: models.CategoryWorkplace, RegisteredAt: at, ExpiresAt: at.Add(72 * time.Hour)},
	})

	require.Len(t, got, 1)
	assert.Equal(t, models.OriginOtherDevice, got[0].Origin)
}

func TestMerge_LocalOnly(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	got := NewReconciler().Merge([]models.LocalInterestCard{localCard(models.CategorySchool, now)}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, models.OriginThisDevice, got[0].Origin)
	assert.Equal(t, "card-school", got[0].CardID)
}
