// Package faq maintains the append-only question and reply thread stored in
// the site-info document.
package faq

import (
	"context"
	"fmt"

	"github.com/teamawesome/wikistore/internal/common"
	"github.com/teamawesome/wikistore/internal/document"
)

type Reply struct {
	Text string `json:"text"`
	User string `json:"user"`
}

type Question struct {
	Text    string  `json:"text"`
	User    string  `json:"user"`
	Replies []Reply `json:"replies"`
}

// siteDoc mirrors website_info.json. The capitalized "FAQ" key is the wire
// format and must stay as-is.
type siteDoc struct {
	FAQ []Question `json:"FAQ"`
}

type Store struct {
	docs *document.Store
}

func NewStore(docs *document.Store) *Store {
	return &Store{docs: docs}
}

// List returns all questions in append order.
func (s *Store) List(ctx context.Context) ([]Question, error) {
	var doc siteDoc
	if err := s.docs.Read(ctx, common.SiteInfoDocument, &doc); err != nil {
		return nil, err
	}
	return doc.FAQ, nil
}

// SubmitQuestion appends a new question with no replies.
func (s *Store) SubmitQuestion(ctx context.Context, author, text string) error {
	var doc siteDoc
	return s.docs.Update(ctx, common.SiteInfoDocument, &doc, func() error {
		doc.FAQ = append(doc.FAQ, Question{Text: text, User: author, Replies: []Reply{}})
		return nil
	})
}

// SubmitReply appends a reply to the question at the given position.
// number is 1-based: this is the wire contract with the route layer, which
// renders questions numbered from 1. Returns common.ErrorOutOfRange if
// number does not address an existing question.
func (s *Store) SubmitReply(ctx context.Context, author, text string, number int) error {
	var doc siteDoc
	return s.docs.Update(ctx, common.SiteInfoDocument, &doc, func() error {
		i := number - 1
		if i < 0 || i >= len(doc.FAQ) {
			return fmt.Errorf("%w: question %d of %d", common.ErrorOutOfRange, number, len(doc.FAQ))
		}
		doc.FAQ[i].Replies = append(doc.FAQ[i].Replies, Reply{Text: text, User: author})
		return nil
	})
}
