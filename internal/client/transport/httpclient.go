package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/vkozyrev/sharebox/internal/client/apperr"
	"github.com/vkozyrev/sharebox/internal/common"
)

const (
	defaultRequestTimeout = 15 * time.Second
	// Uploads get a much longer budget because payload sizes vary widely.
	defaultUploadTimeout = 2 * time.Minute
)

// Interceptor wraps a RoundTripper, mirroring the mobile client's
// request/response interceptor chain.
type Interceptor func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	baseURL       string
	http          *http.Client
	upload        *http.Client
	tokens        TokenSource
	onAuthFailure func(ctx context.Context)
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the ordinary request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithUploadTimeout sets the upload request timeout.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.upload.Timeout = d }
}

// WithTokenSource sets the credential source attached to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithAuthFailureHook registers the callback invoked when the backend
// rejects the credential (401). The transport calls it before returning the
// normalized error, so session state is already consistent when the caller
// observes the failure.
func WithAuthFailureHook(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onAuthFailure = fn }
}

// WithInterceptors appends round-trip interceptors, innermost last.
func WithInterceptors(is ...Interceptor) Option {
	return func(c *HTTPClient) {
		for _, it := range is {
			c.http.Transport = it(c.http.Transport)
			c.upload.Transport = it(c.upload.Transport)
		}
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout, Transport: http.DefaultTransport},
		upload:  &http.Client{Timeout: defaultUploadTimeout, Transport: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	c.upload.CloseIdleConnections()
	return nil
}

// bearer resolves the credential, if any. The TokenSource contract
// guarantees an expired credential is never attached.
func (c *HTTPClient) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	return c.tokens.Token(ctx)
}

// do performs a JSON request and decodes the response body into any.
// Non-2xx replies become *apperr.APIError; a 401 additionally triggers the
// auth-failure hook before the error is returned.
func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, path string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(ctx, hc, req)
}

func (c *HTTPClient) send(ctx context.Context, hc *http.Client, req *http.Request) (any, error) {
	tok, err := c.bearer(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving credential: %w", err)
	}
	if tok != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+tok)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := apperr.FromResponse(resp.StatusCode, payload)
		if resp.StatusCode == http.StatusUnauthorized && c.onAuthFailure != nil {
			c.onAuthFailure(ctx)
		}
		return nil, apiErr
	}

	if len(payload) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		// Tolerate non-JSON success bodies; callers adapt what they can.
		return strings.TrimSpace(string(payload)), nil
	}
	return decoded, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req SignUp) (any, error) {
	return c.do(ctx, c.http, http.MethodPost, "/api/auth/signup", req)
}

func (c *HTTPClient) SignIn(ctx context.Context, username, password string) (any, error) {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, c.http, http.MethodPost, "/api/auth/login", body)
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, c.http, http.MethodPost, "/api/auth/logout", nil)
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (any, error) {
	return c.do(ctx, c.http, http.MethodGet, "/api/users/me", nil)
}

func (c *HTTPClient) ListFiles(ctx context.Context, userID string) (any, error) {
	return c.do(ctx, c.http, http.MethodGet, "/api/files?user_id="+url.QueryEscape(userID), nil)
}

func (c *HTTPClient) GetFile(ctx context.Context, id string) (any, error) {
	return c.do(ctx, c.http, http.MethodGet, "/api/files/"+url.PathEscape(id), nil)
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	_, err := c.do(ctx, c.http, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil)
	return err
}

// FindFileByName returns the raw payload of an existing same-named file, or
// (nil, nil) when the backend reports none.
func (c *HTTPClient) FindFileByName(ctx context.Context, name, userID string) (any, error) {
	q := url.Values{"name": {name}, "user_id": {userID}}
	raw, err := c.do(ctx, c.http, http.MethodGet, "/api/files/check?"+q.Encode(), nil)
	if err != nil {
		if n := apperr.Normalize(err); n.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// UploadFile sends one file as a multipart body using the upload client's
// longer timeout.
func (c *HTTPClient) UploadFile(ctx context.Context, up Upload) (any, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(up.Name)))
	if up.MimeType != "" {
		header.Set("Content-Type", up.MimeType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating multipart: %w", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return nil, fmt.Errorf("reading file content: %w", err)
	}
	if err := mw.WriteField("user_id", up.UserID); err != nil {
		return nil, fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finishing multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(ctx, c.upload, req)
}

func (c *HTTPClient) ShareFile(ctx context.Context, fileID, recipientID string) (any, error) {
	body := map[string]string{"file_id": fileID, "recipient_id": recipientID}
	return c.do(ctx, c.http, http.MethodPost, "/api/shares", body)
}

func (c *HTTPClient) ListInbox(ctx context.Context) (any, error) {
	return c.do(ctx, c.http, http.MethodGet, "/api/shares/inbox", nil)
}

func (c *HTTPClient) MarkShareRead(ctx context.Context, id string) error {
	_, err := c.do(ctx, c.http, http.MethodPost, "/api/shares/"+url.PathEscape(id)+"/read", nil)
	return err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, c.http, http.MethodGet, "/api/ping", nil)
	return err
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
