package render

import (
	"html/template"
	"strings"
)

// Entry is one stored book of the collection panel.
type Entry struct {
	// Name is the stored name, kept as the name of the downloaded file.
	Name string
	// DisplayName is the link text.
	DisplayName string
	// URL is the address of the book on the books API.
	URL string
	// DeletePath is the page action removing the book.
	DeletePath string
}

var listingTemplate = template.Must(template.New("listing").Parse(
	`{{range .}}<a href="{{.URL}}" download="{{.Name}}">{{.DisplayName}}</a> ` +
		`<form class="kustuta" method="post" action="{{.DeletePath}}"><button type="submit">[kustuta]</button></form>` +
		"<br />\n{{end}}"))

// Listing renders the collection panel. Entries keep the given order.
func Listing(entries []Entry) (template.HTML, error) {
	var sb strings.Builder
	if err := listingTemplate.Execute(&sb, entries); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}
