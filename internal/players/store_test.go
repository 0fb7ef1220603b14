package players_test

import (
	"testing"

	"github.com/birdiebook/birdiebook/internal/database"
	"github.com/birdiebook/birdiebook/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (players.Store, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return players.New(db), teardown
}

func TestUpsertAndGetPlayer(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(players.PlayerInfo{ID: "p1", Name: "Anna Madsen", WHSIndex: 12.4}))
	require.NoError(t, store.UpsertPlayer(players.PlayerInfo{ID: "p2", Name: "Bo Holm", WHSIndex: 26.0}))

	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p3"))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 12.4, p.WHSIndex)

	all, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Anna Madsen", all[0].Name, "players are sorted by name")
}

func TestSetWHSIndex(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(players.PlayerInfo{ID: "p1", Name: "Anna Madsen", WHSIndex: 12.4}))
	require.NoError(t, store.SetWHSIndex("p1", 11.9))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 11.9, p.WHSIndex)

	assert.Error(t, store.SetWHSIndex("ghost", 10.0))
}
