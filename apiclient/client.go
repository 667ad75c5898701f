// Package apiclient holds the JSON request helpers used to talk to the books API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Financial-Times/go-logger/v2"
	tidUtils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/pkg/errors"
)

const (
	contentTypeHeader = "Content-Type"
	acceptHeader      = "Accept"
	jsonMediaType     = "application/json"
)

// Client issues single JSON requests against the books API. It never retries.
type Client struct {
	httpClient *http.Client
	log        *logger.UPPLogger
}

func NewClient(client *http.Client, log *logger.UPPLogger) *Client {
	return &Client{
		httpClient: client,
		log:        log,
	}
}

// PostJSON sends fields as a JSON object to url and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, fields map[string]string, out interface{}) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.log.WithError(err).Error("Error in creating the HTTP request to books API")
		return err
	}
	req.Header.Set(contentTypeHeader, jsonMediaType)
	req.Header.Set(acceptHeader, jsonMediaType)

	return c.do(ctx, req, out)
}

// GetJSON fetches url and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		c.log.WithError(err).Error("Error in creating the HTTP request to books API")
		return err
	}
	req.Header.Set(acceptHeader, jsonMediaType)

	return c.do(ctx, req, out)
}

// Delete removes the resource at url. The response body is ignored on success.
func (c *Client) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		c.log.WithError(err).Error("Error in creating the HTTP request to books API")
		return err
	}

	return c.do(ctx, req, nil)
}

func (c *Client) do(ctx context.Context, req *http.Request, out interface{}) error {
	tid, err := tidUtils.GetTransactionIDFromContext(ctx)
	if err != nil {
		tid = tidUtils.NewTransactionID()
		c.log.WithTransactionID(tid).
			WithError(err).
			Info("No Transaction ID provided for books API request, so a new one has been generated.")
		ctx = tidUtils.TransactionAwareContext(ctx, tid)
	}
	req.Header.Set(tidUtils.TransactionIDHeader, tid)

	reqLog := c.log.WithTransactionID(tid).
		WithField("method", req.Method).
		WithField("url", req.URL.String())

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		reqLog.WithError(err).Error("Error making the HTTP request to books API")
		return &NetworkError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		reqLog.WithError(err).Error("Error reading the HTTP response from books API")
		return &NetworkError{err: errors.Wrap(err, "failed to read books API response body")}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{status: resp.StatusCode, body: string(body)}
		reqLog.WithField("status", resp.StatusCode).WithError(apiErr).Error("Error received from books API")
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err = json.Unmarshal(body, out); err != nil {
		reqLog.WithError(err).Error("Error in unmarshalling the HTTP response from books API")
		return &DecodeError{err: err}
	}
	return nil
}
