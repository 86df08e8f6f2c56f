package personio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"personio-go/internal/httpx"
)

const (
	DefaultBaseURL  = "https://api.personio.de/v1/"
	DefaultPageSize = 200
)

// Client talks to the Personio API. It is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	clientID     string
	clientSecret string
	http         *http.Client
	log          hclog.Logger
	retry        httpx.RetryConfig
	pageSize     int
	dec          *decoder

	mu      sync.RWMutex
	token   string
	dynamic []DynamicMapping
}

type Option func(*Client) error

func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := parseBaseURL(raw)
		if err != nil {
			return err
		}
		c.baseURL = u
		return nil
	}
}

func WithCredentials(clientID, clientSecret string) Option {
	return func(c *Client) error {
		c.clientID = clientID
		c.clientSecret = clientSecret
		return nil
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			c.http = hc
		}
		return nil
	}
}

func WithLogger(log hclog.Logger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

// WithDynamicFields registers aliases for custom employee attributes.
func WithDynamicFields(mappings ...DynamicMapping) Option {
	return func(c *Client) error {
		c.dynamic = append(c.dynamic, mappings...)
		return nil
	}
}

// WithPageSize sets the limit used for paginated requests.
func WithPageSize(n int) Option {
	return func(c *Client) error {
		if n <= 0 {
			return errorf("page size must be positive, got %d", n)
		}
		c.pageSize = n
		return nil
	}
}

func WithRetryConfig(cfg httpx.RetryConfig) Option {
	return func(c *Client) error {
		c.retry = cfg
		return nil
	}
}

// New creates a client. Credentials that are not passed explicitly are read
// from the CLIENT_ID and CLIENT_SECRET environment variables.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:     &http.Client{Timeout: 60 * time.Second},
		log:      hclog.NewNullLogger(),
		retry:    httpx.DefaultRetryConfig(),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		u, err := parseBaseURL(DefaultBaseURL)
		if err != nil {
			return nil, err
		}
		c.baseURL = u
	}
	if c.clientID == "" {
		c.clientID = os.Getenv("CLIENT_ID")
	}
	if c.clientSecret == "" {
		c.clientSecret = os.Getenv("CLIENT_SECRET")
	}
	c.dec = newDecoder(c.log)
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &Error{Msg: "invalid base URL", Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errorf("invalid base URL '%s'", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, &Error{Msg: "invalid request path", Err: err}
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Authenticated reports whether the client holds a token.
func (c *Client) Authenticated() bool { return c.bearer() != "" }

func (c *Client) dynamicMappings() []DynamicMapping {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dynamic
}

// Authenticate requests a new bearer token with the client credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.clientID == "" || c.clientSecret == "" {
		return &MissingCredentialsError{Msg: "both client_id and client_secret must be provided in order to authenticate"}
	}
	u, err := c.resolve("auth")
	if err != nil {
		return err
	}
	u.RawQuery = url.Values{"client_id": {c.clientID}, "client_secret": {c.clientSecret}}.Encode()
	c.log.Debug("authenticating", "url", c.baseURL.String()+"auth", "client_id", c.clientID)

	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := httpx.DoJSON(ctx, c.http, build, &out, httpx.NoRetry()); err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return NewAPIError(herr.StatusCode, herr.Body)
		}
		return &Error{Msg: "authentication failed", Err: err}
	}
	if out.Data.Token == "" {
		return errorf("authentication response did not contain a token")
	}
	c.setToken(out.Data.Token)
	return nil
}

// Request describes a call relative to the base URL. Body is sent as JSON.
type Request struct {
	Method string
	Path   string
	Params url.Values
	Body   any
	Header http.Header
	// SkipRotation is set for endpoints that do not return a new token.
	SkipRotation bool
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Do sends req with the current token, authenticating first if needed.
// A 401 response triggers one new authentication and one retry. Responses
// of any status are returned; only transport failures are errors.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if !c.Authenticated() {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{Msg: "failed to encode request body", Err: err}
		}
		payload = b
	}

	resp, err := c.send(ctx, req, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Debug("token rejected, authenticating again", "method", req.Method, "path", req.Path)
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		if resp, err = c.send(ctx, req, payload); err != nil {
			return nil, err
		}
	}

	if token := resp.Header.Get("Authorization"); token != "" {
		c.setToken(token)
	} else if !req.SkipRotation && resp.OK() {
		return nil, errorf("missing Authorization header in response to %s %s", req.Method, req.Path)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req Request, payload []byte) (*Response, error) {
	u, err := c.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	if len(req.Params) > 0 {
		u.RawQuery = req.Params.Encode()
	}
	target := u.String()
	token := c.bearer()

	build := func(ctx context.Context) (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		r, err := http.NewRequestWithContext(ctx, req.Method, target, body)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", "application/json")
		if payload != nil {
			r.Header.Set("Content-Type", "application/json")
		}
		r.Header.Set("Authorization", token)
		for k, vs := range req.Header {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		return r, nil
	}

	c.log.Debug("request", "method", req.Method, "url", target)
	resp, body, err := httpx.DoWithRetry(ctx, c.http, build, c.retry)
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		return &Response{StatusCode: herr.StatusCode, Header: herr.Header, Body: herr.Body}, nil
	}
	if err != nil {
		return nil, &Error{Msg: fmt.Sprintf("%s %s failed", req.Method, req.Path), Err: err}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// DoJSON sends req and decodes a successful JSON response into out.
// Error responses become an *APIError.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return NewAPIError(resp.StatusCode, resp.Body)
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &Error{Msg: fmt.Sprintf("failed to parse response as json: %s", snippet(resp.Body)), Err: err}
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

type pageMeta struct {
	TotalElements int `json:"total_elements"`
	CurrentPage   int `json:"current_page"`
	TotalPages    int `json:"total_pages"`
}

type envelopeResponse struct {
	Success  bool      `json:"success"`
	Data     any       `json:"data"`
	Metadata *pageMeta `json:"metadata"`
}

// data sends req and returns the "data" member of the response.
func (c *Client) data(ctx context.Context, req Request) (any, error) {
	var out envelopeResponse
	if err := c.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// DoPaginated collects the "data" lists of a paginated endpoint, advancing the
// offset by the number of items received until a page comes back empty.
func (c *Client) DoPaginated(ctx context.Context, req Request) ([]any, error) {
	params := url.Values{}
	for k, vs := range req.Params {
		params[k] = append([]string(nil), vs...)
	}
	params.Set("limit", strconv.Itoa(c.pageSize))

	var all []any
	offset := 0
	for {
		params.Set("offset", strconv.Itoa(offset))
		page := req
		page.Params = params

		var out envelopeResponse
		if err := c.DoJSON(ctx, page, &out); err != nil {
			return nil, err
		}
		items, ok := out.Data.([]any)
		if out.Data != nil && !ok {
			return nil, errorf("expected a list in paginated response from %s", req.Path)
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		offset += len(items)
		if m := out.Metadata; m != nil && m.TotalPages > 0 && m.CurrentPage >= m.TotalPages {
			break
		}
	}
	return all, nil
}

// DoImage fetches a png or jpeg. It returns nil, nil when the API has no image.
func (c *Client) DoImage(ctx context.Context, req Request) ([]byte, error) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Accept", "image/png, image/jpeg")
	req.SkipRotation = true
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.OK():
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	}
	return nil, NewAPIError(resp.StatusCode, resp.Body)
}
