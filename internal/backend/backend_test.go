package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/common"
)

const (
	contentBucket     = "awesomewikicontent"
	credentialsBucket = "usersandpasswords"
)

func newTestBackend(t *testing.T) (*Backend, *blobstore.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := blobstore.NewMemory()

	// the two table documents pre-exist (provisioning is outside the backend)
	require.NoError(t, mem.Put(ctx, contentBucket, common.UserTableDocument, []byte("{}"), "application/json"))
	require.NoError(t, mem.Put(ctx, contentBucket, common.SiteInfoDocument, []byte(`{"FAQ": []}`), "application/json"))

	return New(mem, contentBucket, credentialsBucket), mem
}

func TestBackend_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	ok, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.SignIn(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// second sign-up fails regardless of the hash
	ok, err = b.SignUp(ctx, "alice", "hash-2")
	require.NoError(t, err)
	assert.False(t, ok)

	// the losing sign-up must not have touched the user table
	user, err := b.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestBackend_SignUpAssignsDefaultPicture(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	ok, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)
	require.True(t, ok)

	pic, err := b.GetProfilePicture(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, common.IsDefaultProfilePicture(pic), "got %q", pic)

	files, err := b.GetUserFiles(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestBackend_SignInUnknownUser(t *testing.T) {
	b, _ := newTestBackend(t)

	ok, err := b.SignIn(context.Background(), "ghost", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_ChangePassword(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "old")
	require.NoError(t, err)

	ok, err := b.ChangePassword(ctx, "alice", "wrong", "new")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = b.ChangePassword(ctx, "alice", "old", "new")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.SignIn(ctx, "alice", "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBackend_ChangeUsername(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)
	ok, err := b.Upload(ctx, "alice", "page", []byte("x"), "p.html")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.ChangeUsername(ctx, "alice", "alicia")
	require.NoError(t, err)
	assert.True(t, ok)

	// credentials follow the rename
	ok, err = b.SignIn(ctx, "alicia", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.SignIn(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// files follow the rename
	files, err := b.GetUserFiles(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, []string{"page.html"}, files)

	_, err = b.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBackend_ChangeUsernameTargetTaken(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)
	_, err = b.SignUp(ctx, "bob", "hash-2")
	require.NoError(t, err)
	ok, err := b.Upload(ctx, "alice", "page", []byte("x"), "p.html")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.ChangeUsername(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// alice's record, files and credential are untouched
	ok, err = b.SignIn(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.True(t, ok)
	files, err := b.GetUserFiles(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"page.html"}, files)
}

func TestBackend_UploadAndContributors(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)

	contributors, err := b.GetContributors(ctx)
	require.NoError(t, err)
	assert.NotContains(t, contributors, "alice")

	ok, err := b.Upload(ctx, "alice", "guide", []byte("<p>g</p>"), "guide.html")
	require.NoError(t, err)
	require.True(t, ok)

	contributors, err = b.GetContributors(ctx)
	require.NoError(t, err)
	assert.Contains(t, contributors, "alice")

	files, err := b.GetUserFiles(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, files, "guide.html")
}

func TestBackend_UploadDuplicateName(t *testing.T) {
	ctx := context.Background()
	b, mem := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)

	ok, err := b.Upload(ctx, "alice", "page", []byte("first"), "page.html")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Upload(ctx, "alice", "page", []byte("second"), "page.html")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := mem.Get(ctx, contentBucket, "page.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestBackend_FAQRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	require.NoError(t, b.SubmitQuestion(ctx, "userA", "Q1"))
	require.NoError(t, b.SubmitReply(ctx, "userB", "R1", 1))

	questions, err := b.GetFAQ(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Text)
	assert.Equal(t, "userA", questions[0].User)
	require.Len(t, questions[0].Replies, 1)
	assert.Equal(t, "R1", questions[0].Replies[0].Text)
	assert.Equal(t, "userB", questions[0].Replies[0].User)
}

func TestBackend_DeleteFile(t *testing.T) {
	ctx := context.Background()
	b, mem := newTestBackend(t)

	_, err := b.SignUp(ctx, "alice", "hash-1")
	require.NoError(t, err)
	ok, err := b.Upload(ctx, "alice", "page", []byte("x"), "p.html")
	require.NoError(t, err)
	require.True(t, ok)

	remaining, err := b.DeleteFile(ctx, "alice", "page.html")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	exists, err := mem.Exists(ctx, contentBucket, "page.html")
	require.NoError(t, err)
	assert.False(t, exists)

	contributors, err := b.GetContributors(ctx)
	require.NoError(t, err)
	assert.NotContains(t, contributors, "alice")
}
