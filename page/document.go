// Package page holds the books page state and the operations changing it:
// form submissions, deletions and collection refreshes.
package page

import (
	"html/template"
	"sync"
)

// Document is the server-held content of the books page.
// Each panel is only ever replaced as a whole; the last write wins.
type Document struct {
	mu      sync.RWMutex
	result  template.HTML
	listing template.HTML
}

func NewDocument() *Document {
	return &Document{}
}

func (d *Document) SetResult(html template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = html
}

func (d *Document) SetListing(html template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listing = html
}

// Result is the content of the result panel.
func (d *Document) Result() template.HTML {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.result
}

// Listing is the content of the collection panel.
func (d *Document) Listing() template.HTML {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.listing
}
