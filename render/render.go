// Package render turns books API results into the HTML fragments shown on the page.
package render

import (
	"encoding/json"
	"errors"
	"html/template"
	"strings"

	"github.com/Financial-Times/books-frontend/books"
)

const (
	// CreateFormID identifies the form adding a book to the collection.
	CreateFormID = "frontform"
	// SearchFormID identifies the form searching a term in the collection.
	SearchFormID = "otsinguform"
)

// Kind is the kind of form a books API result belongs to.
type Kind int

const (
	Create Kind = iota + 1
	Search
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Search:
		return "search"
	default:
		return "unknown"
	}
}

// ErrUnknownKind is returned for results of a kind that cannot be rendered.
var ErrUnknownKind = errors.New("no renderer for this kind of form")

// KindForForm returns the kind of a form by its id. Only the create and search forms are known.
func KindForForm(formID string) (Kind, bool) {
	switch formID {
	case CreateFormID:
		return Create, true
	case SearchFormID:
		return Search, true
	default:
		return 0, false
	}
}

// Instruction tells how the page changes after a successful form submission.
type Instruction struct {
	// Result replaces the content of the result panel.
	Result template.HTML
	// RefreshListing asks for the collection panel to be rebuilt.
	RefreshListing bool
}

var searchTemplate = template.Must(template.New("search").Parse(
	`Sõne '{{.Term}}' leiti järgmistest raamatutest: <br/>` +
		`{{range .Hits}}Raamat {{.BookID}} - {{.Count}} korda!<br/>{{end}}`))

// Render maps the decoded result of a form submission to the page update it causes.
func Render(kind Kind, result json.RawMessage) (Instruction, error) {
	switch kind {
	case Create:
		var created books.CreateResult
		if err := json.Unmarshal(result, &created); err != nil {
			return Instruction{}, err
		}
		return Instruction{
			Result:         template.HTML(template.HTMLEscapeString(created.Message)),
			RefreshListing: true,
		}, nil
	case Search:
		var found books.SearchResult
		if err := json.Unmarshal(result, &found); err != nil {
			return Instruction{}, err
		}
		var sb strings.Builder
		if err := searchTemplate.Execute(&sb, found); err != nil {
			return Instruction{}, err
		}
		return Instruction{Result: template.HTML(sb.String())}, nil
	default:
		return Instruction{}, ErrUnknownKind
	}
}
