package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReset(mailer mail.Mailer) *PasswordReset {
	return &PasswordReset{
		Secret:      []byte("test-secret"),
		Timeout:     time.Hour,
		FrontendURL: "http://frontend.test/",
		From:        "noreply@example.com",
		Mailer:      mailer,
		Log:         zap.NewNop(),
	}
}

func TestUIDRoundTrip(t *testing.T) {
	uid := EncodeUID(42)
	id, ok := DecodeUID(uid)
	require.True(t, ok)
	assert.Equal(t, uint64(42), id)

	_, ok = DecodeUID("!!!")
	assert.False(t, ok)
	_, ok = DecodeUID(EncodeUID(0))
	assert.False(t, ok)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "alice@example.com", "old-pass-1")
	testutil.CreateTestToken(t, db, user, "tok-1")

	mailer := &testutil.MemoryMailer{}
	reset := newTestReset(mailer)

	require.NoError(t, reset.RequestPasswordReset(ctx, db, "Alice@example.com"))
	outbox := mailer.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, []string{"alice@example.com"}, outbox[0].To)
	assert.Equal(t, MsgPasswordResetSub, outbox[0].Subject)

	// pull uid and token back out of the link
	idx := strings.Index(outbox[0].Body, "http://frontend.test/password/reset/confirm/")
	require.GreaterOrEqual(t, idx, 0)
	link := strings.Fields(outbox[0].Body[idx:])[0]
	parts := strings.Split(strings.TrimPrefix(link, "http://frontend.test/password/reset/confirm/"), "/")
	require.Len(t, parts, 2)

	require.NoError(t, reset.ConfirmPasswordReset(ctx, db, parts[0], parts[1], "Fresh-Thyme-9"))

	_, err := Authenticate(ctx, db, "alice@example.com", "Fresh-Thyme-9")
	assert.NoError(t, err)

	var tokens int64
	db.Model(&models.AuthToken{}).Count(&tokens)
	assert.Zero(t, tokens, "reset revokes api tokens")

	// the token dies with the old password
	err = reset.ConfirmPasswordReset(ctx, db, parts[0], parts[1], "Another-Sage-7")
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgInvalidResetTok}, fe["token"])
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mailer := &testutil.MemoryMailer{}

	require.NoError(t, newTestReset(mailer).RequestPasswordReset(context.Background(), db, "nobody@example.com"))
	assert.Empty(t, mailer.Outbox())
}

func TestRequestPasswordResetMailFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	mailer := &testutil.MemoryMailer{Err: errors.New("relay down")}

	err := newTestReset(mailer).RequestPasswordReset(context.Background(), db, "alice@example.com")
	assert.ErrorContains(t, err, "relay down")
}

func TestConfirmPasswordResetRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	reset := newTestReset(&testutil.MemoryMailer{})

	uid, token, err := reset.MakeToken(user)
	require.NoError(t, err)

	var fe types.FieldErrors

	err = reset.ConfirmPasswordReset(ctx, db, "garbage", token, "Fresh-Thyme-9")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgInvalidResetUID}, fe["uid"])

	err = reset.ConfirmPasswordReset(ctx, db, EncodeUID(user.ID+10), token, "Fresh-Thyme-9")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgInvalidResetUID}, fe["uid"])

	err = reset.ConfirmPasswordReset(ctx, db, uid, token+"x", "Fresh-Thyme-9")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgInvalidResetTok}, fe["token"])

	err = reset.ConfirmPasswordReset(ctx, db, uid, token, "123")
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe["new_password"], MsgPasswordTooShort)
}

func TestResetTokenExpires(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "alice@example.com", "pw")

	now := time.Now()
	reset := newTestReset(&testutil.MemoryMailer{})
	reset.Now = func() time.Time { return now }

	_, token, err := reset.MakeToken(user)
	require.NoError(t, err)
	assert.True(t, reset.CheckToken(user, token))

	now = now.Add(2 * time.Hour)
	assert.False(t, reset.CheckToken(user, token))
}

func TestResetTokenBoundToUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	bob := testutil.CreateTestUser(t, db, "bob@example.com", "pw")
	reset := newTestReset(&testutil.MemoryMailer{})

	_, token, err := reset.MakeToken(alice)
	require.NoError(t, err)
	assert.False(t, reset.CheckToken(bob, token))
}
