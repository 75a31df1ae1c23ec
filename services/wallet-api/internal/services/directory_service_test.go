package services

import (
	"context"
	"testing"

	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSearchUsers(t *testing.T) {
	store := newMemStore()
	svc := NewDirectoryService(zap.NewNop(), &fakeDB{store: store}, fakeUserRepo{store}, 2)
	ctx := context.Background()

	caller, _ := store.seed("jon", 0)
	store.seed("John", 0)
	bojo, _ := store.seed("bojo", 0)
	store.seed("joanna", 0)
	store.seed("mary", 0)

	t.Run("empty query returns nothing without searching", func(t *testing.T) {
		for _, q := range []string{"", "   "} {
			got, err := svc.SearchUsers(ctx, "t", q, caller.ID)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
		assert.Equal(t, 0, store.searchCalls)
	})

	t.Run("case-insensitive substring excluding caller, capped", func(t *testing.T) {
		got, err := svc.SearchUsers(ctx, "t", "JO", caller.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, bojo.ToCounterparty(), got[0])
		assert.Equal(t, []string{"bojo", "joanna"}, usernames(got))
	})

	t.Run("limit larger than matches", func(t *testing.T) {
		wide := NewDirectoryService(zap.NewNop(), &fakeDB{store: store}, fakeUserRepo{store}, 20)
		got, err := wide.SearchUsers(ctx, "t", "jo", caller.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"bojo", "joanna", "John"}, usernames(got))
		assert.NotContains(t, usernames(got), "jon")
	})
}

func usernames(cs []models.Counterparty) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Username)
	}
	return out
}
