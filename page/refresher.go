package page

import (
	"context"
	"net/url"

	"github.com/Financial-Times/books-frontend/books"
	"github.com/Financial-Times/books-frontend/render"
	"github.com/Financial-Times/go-logger/v2"
	tidUtils "github.com/Financial-Times/transactionid-utils-go"
)

// Collection lists the stored books and tells how each one is shown and addressed.
type Collection interface {
	List(ctx context.Context) (*books.Listing, error)
	DisplayName(stored string) string
	ResourceURL(stored string) string
}

// DeletePath is the page action removing a stored book.
func DeletePath(stored string) string {
	return "/books/" + url.PathEscape(stored) + "/delete"
}

// Refresher rebuilds the collection panel from the books API.
type Refresher struct {
	collection Collection
	doc        *Document
	log        *logger.UPPLogger
}

func NewRefresher(collection Collection, doc *Document, log *logger.UPPLogger) *Refresher {
	return &Refresher{
		collection: collection,
		doc:        doc,
		log:        log,
	}
}

// Refresh replaces the collection panel with the current content of the books API.
// On failure the panel keeps its previous content and the error is logged.
func (r *Refresher) Refresh(ctx context.Context) error {
	tid, _ := tidUtils.GetTransactionIDFromContext(ctx)
	refreshLog := r.log.WithTransactionID(tid)

	listing, err := r.collection.List(ctx)
	if err != nil {
		refreshLog.WithError(err).Error("Error loading books")
		return err
	}

	entries := make([]render.Entry, 0, len(listing.Books))
	for _, name := range listing.Books {
		entries = append(entries, render.Entry{
			Name:        name,
			DisplayName: r.collection.DisplayName(name),
			URL:         r.collection.ResourceURL(name),
			DeletePath:  DeletePath(name),
		})
	}

	html, err := render.Listing(entries)
	if err != nil {
		refreshLog.WithError(err).Error("Error rendering books")
		return err
	}

	r.doc.SetListing(html)
	refreshLog.WithField("books", len(entries)).Debug("Books listing refreshed")
	return nil
}
