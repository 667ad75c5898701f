package books

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// DefaultDisplaySuffix is stripped from stored book names before they are shown.
const DefaultDisplaySuffix = ".txt"

// FormSubmission is the set of fields of one submitted form.
type FormSubmission map[string]string

// NewFormSubmission collapses submitted form values to one value per field, the last one wins.
func NewFormSubmission(values url.Values) FormSubmission {
	fields := make(FormSubmission, len(values))
	for name, v := range values {
		if len(v) == 0 {
			continue
		}
		fields[name] = v[len(v)-1]
	}
	return fields
}

// CreateResult is the response of the books API to a create form submission.
type CreateResult struct {
	Message string `json:"tulemus"`
}

// SearchResult is the response of the books API to a search form submission.
type SearchResult struct {
	Term string `json:"sone"`
	Hits []Hit  `json:"tulemused"`
}

// Hit is the number of occurrences of the searched term in one book.
type Hit struct {
	BookID ID  `json:"raamatu_id"`
	Count  int `json:"leitud"`
}

// ID is a book identifier. The books API sends it either as a JSON string or a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Listing is the content of the books collection, in the order chosen by the books API.
type Listing struct {
	Books []string `json:"raamatud"`
}

// DisplayName returns the stored name without suffix. Names not ending in suffix are returned unchanged.
func DisplayName(stored string, suffix string) string {
	if suffix == "" {
		return stored
	}
	return strings.TrimSuffix(stored, suffix)
}
