package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamawesome/wikistore/internal/common"
)

func TestMemory_PutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Put(ctx, "content", "page.html", []byte("<p>hi</p>"), "text/html")
	require.NoError(t, err)

	data, err := m.Get(ctx, "content", "page.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<p>hi</p>"), data)

	exists, err := m.Exists(ctx, "content", "page.html")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.Exists(ctx, "content", "missing.html")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "content", "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "content", "a", []byte("x"), "text/plain"))
	require.NoError(t, m.Delete(ctx, "content", "a"))

	err := m.Delete(ctx, "content", "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_List(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "content", "a.html", []byte("1"), "text/html"))
	require.NoError(t, m.Put(ctx, "content", "b.png", []byte("2"), "image/png"))

	names, err := m.List(ctx, "content")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.html", "b.png"}, names)
}

func TestMemory_Copy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "credentials", "alice", []byte("hash"), "text/plain"))
	require.NoError(t, m.Copy(ctx, "credentials", "alice", "alicia"))

	data, err := m.Get(ctx, "credentials", "alicia")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), data)

	err = m.Copy(ctx, "credentials", "ghost", "other")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "content", "a", []byte("abc"), "text/plain"))

	data, err := m.Get(ctx, "content", "a")
	require.NoError(t, err)
	data[0] = 'z'

	again, err := m.Get(ctx, "content", "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
