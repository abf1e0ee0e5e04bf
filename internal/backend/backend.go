// Package backend is the public surface of the wiki's data-access layer.
// It composes the credential store, content repository, profile manager and
// FAQ store over a single object store and exposes only plain values to the
// route layer.
package backend

import (
	"context"
	"fmt"

	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/content"
	"github.com/teamawesome/wikistore/internal/credentials"
	"github.com/teamawesome/wikistore/internal/document"
	"github.com/teamawesome/wikistore/internal/faq"
	"github.com/teamawesome/wikistore/internal/profile"
	"github.com/teamawesome/wikistore/internal/users"
)

// User is the immutable identity value handed to the session layer. No
// framework types cross this boundary.
type User struct {
	Username       string
	ProfilePicture string
}

type Backend struct {
	creds    *credentials.Store
	table    *users.Table
	content  *content.Repository
	profiles *profile.Manager
	faq      *faq.Store
}

// New wires a Backend over the given object store. contentBucket holds wiki
// pages, uploads, profile pictures and the two JSON table documents;
// credentialsBucket holds one blob per username.
func New(blobs blobstore.Store, contentBucket, credentialsBucket string) *Backend {
	docs := document.NewStore(blobs, contentBucket)
	table := users.NewTable(docs)

	return &Backend{
		creds:    credentials.NewStore(blobs, credentialsBucket),
		table:    table,
		content:  content.NewRepository(blobs, contentBucket, table),
		profiles: profile.NewManager(blobs, contentBucket, table),
		faq:      faq.NewStore(docs),
	}
}

// --- account lifecycle ---

// SignUp creates the credential blob and the user-table record for a new
// account. Returns false if the username is taken, in which case the user
// table is left untouched.
func (b *Backend) SignUp(ctx context.Context, username, passwordHash string) (bool, error) {
	created, err := b.creds.Create(ctx, username, passwordHash)
	if err != nil || !created {
		return false, err
	}

	rec := users.Record{
		ProfilePicture: b.profiles.DefaultPicture(),
		UploadedFiles:  []string{},
	}
	if err := b.table.Insert(ctx, username, rec); err != nil {
		return false, fmt.Errorf("inserting user record for %s: %w", username, err)
	}
	return true, nil
}

// SignIn reports whether passwordHash matches the stored credential for
// username. Unknown usernames sign in as false.
func (b *Backend) SignIn(ctx context.Context, username, passwordHash string) (bool, error) {
	return b.creds.Verify(ctx, username, passwordHash)
}

// ChangePassword swaps the stored hash if currentHash matches.
func (b *Backend) ChangePassword(ctx context.Context, username, currentHash, newHash string) (bool, error) {
	return b.creds.Update(ctx, username, currentHash, newHash)
}

// ChangeUsername moves the account from oldName to newName. Returns false
// if newName is already taken. The user table is updated before the
// credential blob is renamed; a crash between the two leaves a table entry
// with no matching credential. That window is inherited behavior and has
// not been closed here.
func (b *Backend) ChangeUsername(ctx context.Context, oldName, newName string) (bool, error) {
	taken, err := b.creds.Exists(ctx, newName)
	if err != nil || taken {
		return false, err
	}

	if err := b.table.Rename(ctx, oldName, newName); err != nil {
		return false, err
	}
	return b.creds.Rename(ctx, oldName, newName)
}

// GetUser returns the session-identity value for username.
func (b *Backend) GetUser(ctx context.Context, username string) (User, error) {
	rec, err := b.table.Get(ctx, username)
	if err != nil {
		return User{}, err
	}
	return User{Username: username, ProfilePicture: rec.ProfilePicture}, nil
}

// --- content ---

func (b *Backend) GetWikiPage(ctx context.Context, name string) (string, error) {
	return b.content.GetPage(ctx, name)
}

func (b *Backend) GetAllPageNames(ctx context.Context) ([]string, error) {
	return b.content.ListPageNames(ctx)
}

func (b *Backend) Upload(ctx context.Context, owner, displayName string, data []byte, originalFilename string) (bool, error) {
	return b.content.Upload(ctx, owner, displayName, data, originalFilename)
}

func (b *Backend) GetImages(ctx context.Context, names []string) ([][]byte, error) {
	return b.content.GetImages(ctx, names)
}

func (b *Backend) GetUserFiles(ctx context.Context, username string) ([]string, error) {
	return b.content.GetUserFiles(ctx, username)
}

func (b *Backend) DeleteFile(ctx context.Context, owner, fileName string) ([]string, error) {
	return b.content.DeleteFile(ctx, owner, fileName)
}

func (b *Backend) GetContributors(ctx context.Context) ([]string, error) {
	return b.content.Contributors(ctx)
}

// --- profile ---

func (b *Backend) GetProfilePicture(ctx context.Context, username string) (string, error) {
	return b.profiles.Get(ctx, username)
}

func (b *Backend) ChangeProfilePicture(ctx context.Context, username string, data []byte, originalFilename string) (bool, error) {
	return b.profiles.Set(ctx, username, data, originalFilename)
}

func (b *Backend) RemoveProfilePicture(ctx context.Context, username string) (bool, error) {
	return b.profiles.Remove(ctx, username)
}

// --- faq ---

func (b *Backend) GetFAQ(ctx context.Context) ([]faq.Question, error) {
	return b.faq.List(ctx)
}

func (b *Backend) SubmitQuestion(ctx context.Context, author, text string) error {
	return b.faq.SubmitQuestion(ctx, author, text)
}

// SubmitReply addresses questions by 1-based position, matching what the
// route layer renders.
func (b *Backend) SubmitReply(ctx context.Context, author, text string, questionNumber int) error {
	return b.faq.SubmitReply(ctx, author, text, questionNumber)
}
