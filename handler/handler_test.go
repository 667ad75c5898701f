package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Financial-Times/books-frontend/books"
	"github.com/Financial-Times/books-frontend/handler"
	"github.com/Financial-Times/books-frontend/page"
	"github.com/Financial-Times/go-logger/v2"
	tidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTID = "test_tid"

var testLog = logger.NewUPPLogger("books-frontend", "PANIC")

func newRouter(h *handler.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.ReadPage).Methods(http.MethodGet)
	r.HandleFunc("/forms/{formID}", h.SubmitForm).Methods(http.MethodPost)
	r.HandleFunc("/books/{name}/delete", h.DeleteBook).Methods(http.MethodPost)
	return r
}

func tidFromContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		tid, err := tidutils.GetTransactionIDFromContext(ctx)
		return err == nil && tid == testTID
	})
}

func TestReadPage(t *testing.T) {
	doc := page.NewDocument()
	doc.SetResult("Created")

	refresher := new(RefresherMock)
	refresher.On("Refresh", tidFromContext()).Run(func(mock.Arguments) {
		doc.SetListing(`<a href="https://books.example.com/raamatud/book1" download="book1.txt">book1</a>`)
	}).Return(nil)

	h := handler.New(new(AdapterMock), refresher, new(LocatorMock), doc, testLog)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(tidutils.TransactionIDHeader, testTID)
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `<form id="frontform" action="/forms/frontform" method="post">`)
	assert.Contains(t, string(body), `<form id="otsinguform" action="/forms/otsinguform" method="post">`)
	assert.Contains(t, string(body), `<div id="tulemus">Created</div>`)
	assert.Contains(t, string(body), `<div id="raamatud_result"><a href="https://books.example.com/raamatud/book1" download="book1.txt">book1</a></div>`)

	refresher.AssertExpectations(t)
}

func TestReadPageKeepsListingWhenRefreshFails(t *testing.T) {
	doc := page.NewDocument()
	doc.SetListing("previous listing")

	refresher := new(RefresherMock)
	refresher.On("Refresh", mock.Anything).Return(errors.New("listing unavailable"))

	h := handler.New(new(AdapterMock), refresher, new(LocatorMock), doc, testLog)

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div id="raamatud_result">previous listing</div>`)
}

func TestSubmitUrlEncodedForm(t *testing.T) {
	adapter := new(AdapterMock)
	adapter.On("Form", "frontform").Return(page.Form{ID: "frontform", Action: "https://books.example.com/raamatud/"}, true)
	adapter.On("Submit", tidFromContext(), "frontform", books.FormSubmission{"title": "X", "author": "last"}).Return(page.Rendered)

	h := handler.New(adapter, new(RefresherMock), new(LocatorMock), page.NewDocument(), testLog)

	form := url.Values{"title": {"X"}, "author": {"first", "last"}}
	req := httptest.NewRequest(http.MethodPost, "/forms/frontform", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(tidutils.TransactionIDHeader, testTID)
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	adapter.AssertExpectations(t)
}

func TestSubmitMultipartForm(t *testing.T) {
	adapter := new(AdapterMock)
	adapter.On("Form", "otsinguform").Return(page.Form{ID: "otsinguform"}, true)
	adapter.On("Submit", mock.Anything, "otsinguform", books.FormSubmission{"query": "whale"}).Return(page.Rendered)

	h := handler.New(adapter, new(RefresherMock), new(LocatorMock), page.NewDocument(), testLog)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("query", "whale"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/forms/otsinguform", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	adapter.AssertExpectations(t)
}

func TestFailedSubmissionStillRedirects(t *testing.T) {
	adapter := new(AdapterMock)
	adapter.On("Form", "frontform").Return(page.Form{ID: "frontform"}, true)
	adapter.On("Submit", mock.Anything, "frontform", books.FormSubmission{"title": "X"}).Return(page.Failed)

	h := handler.New(adapter, new(RefresherMock), new(LocatorMock), page.NewDocument(), testLog)

	req := httptest.NewRequest(http.MethodPost, "/forms/frontform", strings.NewReader("title=X"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	adapter.AssertExpectations(t)
}

func TestSubmitUnknownForm(t *testing.T) {
	adapter := new(AdapterMock)
	adapter.On("Form", "loginform").Return(page.Form{}, false)

	h := handler.New(adapter, new(RefresherMock), new(LocatorMock), page.NewDocument(), testLog)

	req := httptest.NewRequest(http.MethodPost, "/forms/loginform", strings.NewReader("user=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var msg map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msg))
	assert.Equal(t, "Unknown form: loginform", msg["message"])

	adapter.AssertExpectations(t)
	adapter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitMalformedForm(t *testing.T) {
	adapter := new(AdapterMock)
	adapter.On("Form", "frontform").Return(page.Form{ID: "frontform"}, true)

	h := handler.New(adapter, new(RefresherMock), new(LocatorMock), page.NewDocument(), testLog)

	req := httptest.NewRequest(http.MethodPost, "/forms/frontform", strings.NewReader("title=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	adapter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBook(t *testing.T) {
	locator := new(LocatorMock)
	locator.On("ResourceURL", "book1.txt").Return("https://books.example.com/raamatud/book1")
	adapter := new(AdapterMock)
	adapter.On("DeleteResource", tidFromContext(), "https://books.example.com/raamatud/book1").Return(nil)

	h := handler.New(adapter, new(RefresherMock), locator, page.NewDocument(), testLog)

	req := httptest.NewRequest(http.MethodPost, "/books/book1.txt/delete", nil)
	req.Header.Set(tidutils.TransactionIDHeader, testTID)
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	locator.AssertExpectations(t)
	adapter.AssertExpectations(t)
}

func TestFailedDeleteStillRedirects(t *testing.T) {
	locator := new(LocatorMock)
	locator.On("ResourceURL", "missing.txt").Return("https://books.example.com/raamatud/missing")
	adapter := new(AdapterMock)
	adapter.On("DeleteResource", mock.Anything, "https://books.example.com/raamatud/missing").Return(errors.New("Raamatut ei leitud"))

	h := handler.New(adapter, new(RefresherMock), locator, page.NewDocument(), testLog)

	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books/missing.txt/delete", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	adapter.AssertExpectations(t)
}

func TestFormPath(t *testing.T) {
	assert.Equal(t, "/forms/frontform", handler.FormPath("frontform"))
}

type AdapterMock struct {
	mock.Mock
}

func (m *AdapterMock) Form(id string) (page.Form, bool) {
	args := m.Called(id)
	return args.Get(0).(page.Form), args.Bool(1)
}

func (m *AdapterMock) Submit(ctx context.Context, formID string, fields books.FormSubmission) page.State {
	args := m.Called(ctx, formID, fields)
	return args.Get(0).(page.State)
}

func (m *AdapterMock) DeleteResource(ctx context.Context, resourceURL string) error {
	args := m.Called(ctx, resourceURL)
	return args.Error(0)
}

type RefresherMock struct {
	mock.Mock
}

func (m *RefresherMock) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type LocatorMock struct {
	mock.Mock
}

func (m *LocatorMock) ResourceURL(stored string) string {
	args := m.Called(stored)
	return args.String(0)
}
