package books

import (
	"context"
	"net/url"
	"strings"

	"github.com/Financial-Times/go-logger/v2"
	tidUtils "github.com/Financial-Times/transactionid-utils-go"
)

// JSONGetter fetches a JSON document.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out interface{}) error
}

// API gives access to the books collection of the books API.
type API struct {
	endpoint      string
	displaySuffix string
	client        JSONGetter
	log           *logger.UPPLogger
}

// NewAPI initializes API by given JSON client, the collection endpoint
// and the suffix stripped from stored names when they are shown or addressed.
func NewAPI(client JSONGetter, endpoint string, displaySuffix string, log *logger.UPPLogger) *API {
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &API{
		endpoint:      endpoint,
		displaySuffix: displaySuffix,
		client:        client,
		log:           log,
	}
}

// List retrieves the names of all stored books.
func (api *API) List(ctx context.Context) (*Listing, error) {
	var listing Listing
	if err := api.client.GetJSON(ctx, api.endpoint, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// DisplayName is the name shown for a stored book.
func (api *API) DisplayName(stored string) string {
	return DisplayName(stored, api.displaySuffix)
}

// ResourceURL is the address of a stored book on the books API.
// Books are addressed by their display name.
func (api *API) ResourceURL(stored string) string {
	return api.endpoint + url.PathEscape(api.DisplayName(stored))
}

// Endpoint returns the books collection endpoint.
func (api *API) Endpoint() string {
	return api.endpoint
}

// GTG lists the collection and reports whether the books API answered.
func (api *API) GTG() error {
	tid := tidUtils.NewTransactionID()
	ctx := tidUtils.TransactionAwareContext(context.Background(), tid)
	_, err := api.List(ctx)
	if err != nil {
		api.log.WithTransactionID(tid).WithError(err).Error("Books API is not good-to-go")
	}
	return err
}
