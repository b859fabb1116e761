package service

import (
	"context"
	"strings"
	"testing"

	"mailchat/internal/blob"
	"mailchat/internal/db"
	"mailchat/internal/models"
	"mailchat/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (*ChatService, *store.CredentialStore) {
	t.Helper()
	gdb, err := db.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	creds := store.NewCredentialStore(gdb)
	msgs := store.NewMessageStore(gdb)
	blobs, err := blob.NewLocal(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return NewChatService(creds, msgs, blobs), creds
}

func verifiedIdentity(t *testing.T, creds *store.CredentialStore, email string) models.Identity {
	t.Helper()
	ident := models.Identity{Email: email, IsVerified: true}
	require.NoError(t, creds.Upsert(&ident))
	return ident
}

func TestPost_TextTrimmed(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	dto, err := svc.Post(context.Background(), alice, "  hello  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", dto.Content)
	assert.Equal(t, models.KindText, dto.Kind)
	assert.Nil(t, dto.AttachmentRef)
	assert.True(t, dto.IsOwn)
	assert.Equal(t, "alice@x.com", dto.UserEmail)
}

func TestPost_EmptyTextRejected(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.Post(context.Background(), alice, text, nil)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	msgs, err := svc.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs, "no message may be created on rejection")
}

func TestPost_AttachmentKinds(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	tests := []struct {
		filename string
		wantKind string
	}{
		{"cat.png", models.KindImage},
		{"photo.JPEG", models.KindImage},
		{"song.mp3", models.KindAudio},
		{"note.m4a", models.KindAudio},
		{"report.pdf", models.KindFile},
		{"readme.txt", models.KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			dto, err := svc.Post(context.Background(), alice, "", &Upload{
				Filename: tt.filename,
				Size:     4,
				Reader:   strings.NewReader("data"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, dto.Kind)
			assert.Equal(t, tt.filename, dto.Content, "body carries the original filename")
			require.NotNil(t, dto.AttachmentRef)
			assert.NotEmpty(t, *dto.AttachmentRef)
		})
	}
}

func TestPost_UnsupportedExtension(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	for _, filename := range []string{"evil.exe", "script.sh", "noext", "archive.tar.gz"} {
		_, err := svc.Post(context.Background(), alice, "", &Upload{
			Filename: filename,
			Size:     4,
			Reader:   strings.NewReader("data"),
		})
		assert.ErrorIs(t, err, ErrUnsupportedFileType, "filename %q", filename)
	}

	msgs, err := svc.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs, "rejection happens before any store write")
}

func TestPost_OversizeAttachment(t *testing.T) {
	gdb, err := db.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	creds := store.NewCredentialStore(gdb)
	blobs, err := blob.NewLocal(t.TempDir(), 8)
	require.NoError(t, err)
	svc := NewChatService(creds, store.NewMessageStore(gdb), blobs)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	_, err = svc.Post(context.Background(), alice, "", &Upload{
		Filename: "big.pdf",
		Size:     9,
		Reader:   strings.NewReader("123456789"),
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	msgs, err := svc.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestList_IsOwnPerViewer(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")
	bob := verifiedIdentity(t, creds, "bob@x.com")

	_, err := svc.Post(context.Background(), alice, "from alice", nil)
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), bob, "from bob", nil)
	require.NoError(t, err)

	forAlice, err := svc.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, forAlice, 2)
	assert.True(t, forAlice[0].IsOwn)
	assert.False(t, forAlice[1].IsOwn)
	assert.Equal(t, "alice@x.com", forAlice[0].UserEmail)
	assert.Equal(t, "bob@x.com", forAlice[1].UserEmail)

	forBob, err := svc.List(bob.ID)
	require.NoError(t, err)
	require.Len(t, forBob, 2)
	assert.False(t, forBob[0].IsOwn)
	assert.True(t, forBob[1].IsOwn)
}

func TestList_CommitOrder(t *testing.T) {
	svc, creds := newChatService(t)
	alice := verifiedIdentity(t, creds, "alice@x.com")

	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.Post(context.Background(), alice, body, nil)
		require.NoError(t, err)
	}

	msgs, err := svc.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestListUsers_VerifiedOnly(t *testing.T) {
	svc, creds := newChatService(t)
	verifiedIdentity(t, creds, "alice@x.com")
	require.NoError(t, creds.Upsert(&models.Identity{Email: "pending@x.com"}))
	verifiedIdentity(t, creds, "bob@x.com")

	users, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@x.com", "bob@x.com"}, users)
}
