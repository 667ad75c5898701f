package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/Financial-Times/books-frontend/books"
	"github.com/Financial-Times/books-frontend/page"
	"github.com/Financial-Times/go-logger/v2"
	tidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/gorilla/mux"
)

const maxFormMemory = 1 << 20

// FormAdapter submits page forms and deletes books.
type FormAdapter interface {
	Form(id string) (page.Form, bool)
	Submit(ctx context.Context, formID string, fields books.FormSubmission) page.State
	DeleteResource(ctx context.Context, resourceURL string) error
}

// ListingRefresher rebuilds the collection panel.
type ListingRefresher interface {
	Refresh(ctx context.Context) error
}

// ResourceLocator gives the books API address of a stored book.
type ResourceLocator interface {
	ResourceURL(stored string) string
}

// Handler provides the books page and the endpoints its forms and delete actions post to.
type Handler struct {
	adapter   FormAdapter
	refresher ListingRefresher
	locator   ResourceLocator
	doc       *page.Document
	log       *logger.UPPLogger
}

// New initializes Handler.
func New(adapter FormAdapter, refresher ListingRefresher, locator ResourceLocator, doc *page.Document, log *logger.UPPLogger) *Handler {
	return &Handler{
		adapter:   adapter,
		refresher: refresher,
		locator:   locator,
		doc:       doc,
		log:       log,
	}
}

// ReadPage refreshes the collection panel and serves the books page.
// A failed refresh keeps the previous collection panel.
func (h *Handler) ReadPage(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	tID, _ := tidutils.GetTransactionIDFromContext(ctx)

	_ = h.refresher.Refresh(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		CreateAction: FormPath(createFormID),
		SearchAction: FormPath(searchFormID),
		Result:       h.doc.Result(),
		Listing:      h.doc.Listing(),
	})
	if err != nil {
		h.log.WithTransactionID(tID).WithError(err).Error("Failed to render books page")
	}
}

// SubmitForm forwards a form of the page to the books API and sends the browser back to the page.
// The outcome of the submission is only visible in the page panels and the logs.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formID"]
	ctx := requestContext(r)
	tID, _ := tidutils.GetTransactionIDFromContext(ctx)

	submitLog := h.log.WithTransactionID(tID).WithField("form", formID)

	if _, ok := h.adapter.Form(formID); !ok {
		submitLog.Warn("Submission of an unknown form")
		writeMessage(w, "Unknown form: "+formID, http.StatusNotFound)
		return
	}

	if err := parseForm(r); err != nil {
		submitLog.WithError(err).Error("Unable to parse form body")
		writeMessage(w, "Unable to parse form body: "+err.Error(), http.StatusBadRequest)
		return
	}

	state := h.adapter.Submit(ctx, formID, books.NewFormSubmission(r.PostForm))
	submitLog.WithField("state", state.String()).Info("Form submission handled")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteBook deletes a stored book on the books API and sends the browser back to the page.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ctx := requestContext(r)

	// failures are logged by the adapter
	_ = h.adapter.DeleteResource(ctx, h.locator.ResourceURL(name))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FormPath is the page endpoint a form is submitted to.
func FormPath(formID string) string {
	return "/forms/" + formID
}

func requestContext(r *http.Request) context.Context {
	tID := tidutils.GetTransactionIDFromRequest(r)
	return tidutils.TransactionAwareContext(r.Context(), tID)
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func writeMessage(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	message := make(map[string]interface{})
	message["message"] = msg
	j, err := json.Marshal(&message)

	if err != nil {
		return
	}

	_, _ = w.Write(j)
}

type pageData struct {
	CreateAction string
	SearchAction string
	Result       template.HTML
	Listing      template.HTML
}
