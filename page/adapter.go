package page

import (
	"context"
	"encoding/json"

	"github.com/Financial-Times/books-frontend/books"
	"github.com/Financial-Times/books-frontend/render"
	"github.com/Financial-Times/go-logger/v2"
	tidUtils "github.com/Financial-Times/transactionid-utils-go"
	metrics "github.com/rcrowley/go-metrics"
)

// State is the progress of one form submission.
type State int

const (
	Idle State = iota
	Submitting
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Form is a form bound to the page and the books API endpoint it is submitted to.
type Form struct {
	ID     string
	Action string
}

// Client performs the books API calls of the page.
type Client interface {
	PostJSON(ctx context.Context, url string, fields map[string]string, out interface{}) error
	Delete(ctx context.Context, url string) error
}

// ListingRefresher rebuilds the collection panel.
type ListingRefresher interface {
	Refresh(ctx context.Context) error
}

// Adapter binds the page forms and delete actions to the books API.
type Adapter struct {
	client    Client
	forms     map[string]Form
	doc       *Document
	refresher ListingRefresher
	registry  metrics.Registry
	log       *logger.UPPLogger
}

// NewAdapter binds the given forms. Forms with an id unknown to the renderer are ignored.
func NewAdapter(client Client, forms []Form, doc *Document, refresher ListingRefresher, registry metrics.Registry, log *logger.UPPLogger) *Adapter {
	bound := make(map[string]Form, len(forms))
	for _, f := range forms {
		if _, ok := render.KindForForm(f.ID); !ok {
			log.WithField("form", f.ID).Warn("Form has no renderer, not binding it")
			continue
		}
		bound[f.ID] = f
	}
	return &Adapter{
		client:    client,
		forms:     bound,
		doc:       doc,
		refresher: refresher,
		registry:  registry,
		log:       log,
	}
}

// Form returns the bound form with the given id.
func (a *Adapter) Form(id string) (Form, bool) {
	f, ok := a.forms[id]
	return f, ok
}

// Submit posts the fields of a bound form to its action and renders the result into the page.
// Failures are logged and leave the page unchanged. Submitting an unbound form is a no-op.
func (a *Adapter) Submit(ctx context.Context, formID string, fields books.FormSubmission) State {
	tid, _ := tidUtils.GetTransactionIDFromContext(ctx)
	submitLog := a.log.WithTransactionID(tid).WithField("form", formID)

	form, ok := a.forms[formID]
	if !ok {
		submitLog.Warn("Submission of an unbound form ignored")
		return Idle
	}
	kind, _ := render.KindForForm(formID)

	submitLog.WithField("action", form.Action).WithField("state", Submitting).Debug("Submitting form")

	var result json.RawMessage
	if err := a.client.PostJSON(ctx, form.Action, fields, &result); err != nil {
		submitLog.WithError(err).Error("Form submission failed")
		return a.done(formID, Failed)
	}
	submitLog.WithField("response", string(result)).Debug("Form submitted")

	instr, err := render.Render(kind, result)
	if err != nil {
		submitLog.WithError(err).Error("Failed to render form submission result")
		return a.done(formID, Failed)
	}

	a.doc.SetResult(instr.Result)
	if instr.RefreshListing {
		// the refresher logs its own failures
		_ = a.refresher.Refresh(ctx)
	}
	return a.done(formID, Rendered)
}

// DeleteResource deletes the book at resourceURL and refreshes the collection panel.
// The panel is only rebuilt from the books API, never edited locally.
func (a *Adapter) DeleteResource(ctx context.Context, resourceURL string) error {
	tid, _ := tidUtils.GetTransactionIDFromContext(ctx)
	deleteLog := a.log.WithTransactionID(tid).WithField("url", resourceURL)

	if err := a.client.Delete(ctx, resourceURL); err != nil {
		deleteLog.WithError(err).Error("Error deleting book")
		metrics.GetOrRegisterCounter("books.delete.failed", a.registry).Inc(1)
		return err
	}
	metrics.GetOrRegisterCounter("books.delete.succeeded", a.registry).Inc(1)
	deleteLog.Info("Book deleted")

	_ = a.refresher.Refresh(ctx)
	return nil
}

func (a *Adapter) done(formID string, s State) State {
	metrics.GetOrRegisterCounter("forms."+formID+"."+s.String(), a.registry).Inc(1)
	return s
}
