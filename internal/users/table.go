// Package users maintains the user-table document: a JSON mapping from
// username to per-user wiki metadata (profile picture, uploaded files).
package users

import (
	"context"
	"fmt"

	"github.com/teamawesome/wikistore/internal/common"
	"github.com/teamawesome/wikistore/internal/document"
)

// Record is one user's entry in the table. UploadedFiles keeps insertion
// order; callers must not double-insert the same blob name.
type Record struct {
	ProfilePicture string   `json:"profile_picture"`
	UploadedFiles  []string `json:"uploaded_files"`
}

// Table exposes keyed read-modify-write operations over the user-table
// document. Every username listed here has a matching credential blob;
// keeping the two in sync is the account layer's job.
type Table struct {
	docs *document.Store
}

func NewTable(docs *document.Store) *Table {
	return &Table{docs: docs}
}

// Get returns the record for username. Returns common.ErrorNotFound if the
// user has no entry.
func (t *Table) Get(ctx context.Context, username string) (Record, error) {
	var doc tableDoc
	if err := t.docs.Read(ctx, common.UserTableDocument, &doc); err != nil {
		return Record{}, err
	}
	rec, ok := doc.records[username]
	if !ok {
		return Record{}, fmt.Errorf("%w: user %s", common.ErrorNotFound, username)
	}
	return rec, nil
}

// Insert adds a new record under username. Inserting an existing username
// overwrites its record and keeps its position, matching plain map
// assignment semantics.
func (t *Table) Insert(ctx context.Context, username string, rec Record) error {
	var doc tableDoc
	return t.docs.Update(ctx, common.UserTableDocument, &doc, func() error {
		doc.set(username, rec)
		return nil
	})
}

// Update applies mutate to the record for username and persists the table.
// Returns the updated record. Returns common.ErrorNotFound if the user has
// no entry.
func (t *Table) Update(ctx context.Context, username string, mutate func(*Record) error) (Record, error) {
	var doc tableDoc
	var out Record
	err := t.docs.Update(ctx, common.UserTableDocument, &doc, func() error {
		rec, ok := doc.records[username]
		if !ok {
			return fmt.Errorf("%w: user %s", common.ErrorNotFound, username)
		}
		if err := mutate(&rec); err != nil {
			return err
		}
		doc.records[username] = rec
		out = rec
		return nil
	})
	return out, err
}

// Rename moves the record from oldName to newName, preserving its content.
// The renamed entry moves to the end of the table, the same way deleting
// and re-adding a key does. Returns common.ErrorNotFound if oldName has no
// entry.
func (t *Table) Rename(ctx context.Context, oldName, newName string) error {
	var doc tableDoc
	return t.docs.Update(ctx, common.UserTableDocument, &doc, func() error {
		rec, ok := doc.records[oldName]
		if !ok {
			return fmt.Errorf("%w: user %s", common.ErrorNotFound, oldName)
		}
		doc.remove(oldName)
		doc.set(newName, rec)
		return nil
	})
}

// Contributors returns the usernames with at least one uploaded file, in
// table insertion order.
func (t *Table) Contributors(ctx context.Context) ([]string, error) {
	var doc tableDoc
	if err := t.docs.Read(ctx, common.UserTableDocument, &doc); err != nil {
		return nil, err
	}
	contributors := []string{}
	for _, username := range doc.order {
		if len(doc.records[username].UploadedFiles) > 0 {
			contributors = append(contributors, username)
		}
	}
	return contributors, nil
}
