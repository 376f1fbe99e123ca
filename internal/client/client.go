// Package client is the customer app's only way to reach the backend. It
// attaches the bearer token, normalises responses and turns failures into
// APIError values.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ekthaa/customer-client/internal/session"
	"github.com/ekthaa/customer-client/internal/utils"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

const maxBlobSize = 32 << 20

// Client calls the REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
	logger  *utils.Logger
}

// NewClient creates a client for baseURL. A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, sess *session.Manager, logger *utils.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		logger:  logger,
	}
}

// Session returns the session the client reads its token from.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Blob is a binary response body.
type Blob struct {
	ContentType string
	Data        []byte
}

// DataURI encodes the blob for inline display.
func (b *Blob) DataURI() string {
	return "data:" + b.ContentType + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// Attachment is a file sent in a multipart request.
type Attachment struct {
	FieldName string
	FileName  string
	Reader    io.Reader
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send performs req and returns the response only for 2xx statuses; the
// caller must close its body. A 401 clears the session that sent the
// request before the error is returned.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	path := req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("%s %s failed: %v", req.Method, path, err)
		return nil, fmt.Errorf("error calling %s %s: %w", req.Method, path, err)
	}
	c.logger.Info("%s %s -> %d", req.Method, path, resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{
		Method:     req.Method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.StatusCode, body),
		Body:       body,
	}

	if resp.StatusCode == http.StatusUnauthorized {
		sent := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		cleared, err := c.session.EndIfToken(sent)
		if err != nil {
			c.logger.Error("error clearing session after 401: %v", err)
		} else if cleared {
			c.logger.Info("session cleared after 401 from %s", path)
		}
	}
	return nil, apiErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) doBlob(ctx context.Context, method, path string, in interface{}) (*Blob, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if len(data) > maxBlobSize {
		return nil, fmt.Errorf("error reading %s: %w", path, ErrBlobTooLarge)
	}
	return &Blob{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, file *Attachment, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("error writing field %s: %w", key, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return fmt.Errorf("error creating file part: %w", err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("error copying %s: %w", file.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// emptyOn404 turns a 404 from a collection endpoint into an empty result.
// The backend answers 404 when a feature is not enabled for an account.
func emptyOn404[T any](items []T, err error) ([]T, error) {
	if err != nil {
		if IsNotFound(err) {
			return []T{}, nil
		}
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func idPath(format string, id string) string {
	return fmt.Sprintf(format, url.PathEscape(id))
}
