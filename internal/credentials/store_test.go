package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamawesome/wikistore/internal/blobstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(blobstore.NewMemory(), "credentials")
}

func TestStore_CreateAndVerify(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CreateExistingFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Create(ctx, "alice", "hash-2")
	require.NoError(t, err)
	assert.False(t, ok)

	// original hash untouched
	ok, err = s.Verify(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_VerifyUnknownUser(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Verify(context.Background(), "ghost", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, "alice", "old-hash")
	require.NoError(t, err)

	ok, err := s.Update(ctx, "alice", "wrong-hash", "new-hash")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Update(ctx, "alice", "old-hash", "new-hash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alice", "new-hash")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_UpdateUnknownUser(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Update(context.Background(), "ghost", "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Rename(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)

	ok, err := s.Rename(ctx, "alice", "alicia")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alicia", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RenameTargetTaken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", "hash-2")
	require.NoError(t, err)

	ok, err := s.Rename(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// both untouched
	ok, err = s.Verify(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Verify(ctx, "bob", "hash-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
