package services

import (
	"context"
	"testing"

	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	bob := testutil.CreateTestUser(t, db, "bob@example.com", "pw")
	first := testutil.CreateTestList(t, db, "First", alice)
	second := testutil.CreateTestList(t, db, "Second", alice)

	_, err := ShareShoppingList(ctx, db, alice, first.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = ShareShoppingList(ctx, db, alice, second.ID, "bob@example.com")
	require.NoError(t, err)

	notes, err := ListNotifications(ctx, db, bob.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Greater(t, notes[0].ID, notes[1].ID, "newest first")
	assert.JSONEq(t,
		`{"shopping_list_id":2,"shopping_list_name":"Second","shared_by":"alice@example.com"}`,
		string(notes[0].Data.JSON),
	)

	read, err := MarkNotificationRead(ctx, db, bob.ID, notes[1].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = MarkNotificationRead(ctx, db, alice.ID, notes[0].ID)
	assert.ErrorIs(t, err, ErrNotFound, "notifications are private")

	empty, err := ListNotifications(ctx, db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNotifyListShared(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	testutil.CreateTestUser(t, db, "bob@example.com", "pw")
	list := testutil.CreateTestList(t, db, "Groceries", alice)
	mailer := &testutil.MemoryMailer{}

	result, err := ShareShoppingList(ctx, db, alice, list.ID, "bob@example.com")
	require.NoError(t, err)
	require.NoError(t, NotifyListShared(ctx, mailer, "noreply@example.com", result, alice.Email))

	outbox := mailer.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "noreply@example.com", outbox[0].From)
	assert.Equal(t, []string{"bob@example.com"}, outbox[0].To)
	assert.Equal(t, MsgShareSubject, outbox[0].Subject)
	assert.Equal(t, "alice@example.com has shared a shopping list with you.", outbox[0].Body)

	// a repeat share sends nothing
	result, err = ShareShoppingList(ctx, db, alice, list.ID, "bob@example.com")
	require.NoError(t, err)
	require.NoError(t, NotifyListShared(ctx, mailer, "noreply@example.com", result, alice.Email))
	assert.Len(t, mailer.Outbox(), 1)
}
