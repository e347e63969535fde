package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gerritkit/pkg/errors"
)

// xssiPrefix is the magic guard Gerrit prepends to every JSON response
// to defeat cross-site script inclusion. It must be stripped before decoding.
const xssiPrefix = ")]}'"

const defaultTimeout = 30 * time.Second

// Options configures a Client
type Options struct {
	// Username and Password enable basic auth against the /a/ endpoints.
	// Password is the Gerrit HTTP password, not the account password.
	Username string
	Password string
	// Insecure disables TLS certificate verification
	Insecure bool
	Timeout  time.Duration
}

// Client is an HTTP session against one Gerrit server. It issues
// synchronous, blocking requests and performs no retries; every error
// is surfaced to the caller unchanged.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// New creates a client for the Gerrit server at baseURL
func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, errors.ConfigError("gerrit server URL is not set", "gerrit.url")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid gerrit server URL: %v", err), "gerrit.url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.ConfigError("gerrit server URL must use http or https", "gerrit.url")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if opts.Insecure {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 - explicit opt-in
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		http:     httpClient,
	}, nil
}

// BaseURL returns the configured server URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether the client sends credentials
func (c *Client) Authenticated() bool {
	return c.username != ""
}

// Call issues one HTTP request against the REST API. method is one of
// GET, PUT, POST or DELETE; endpoint is a path relative to the API base,
// e.g. "/projects/tools/branches/". A non-nil body is JSON-encoded for
// PUT and POST requests. The response is returned unread; pass it to
// DecodeResponse, DecodeString or CheckStatus.
func (c *Client) Call(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	method = strings.ToUpper(method)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to encode request payload")
		}
		reader = bytes.NewReader(data)
	}

	// Authenticated requests go through Gerrit's /a/ prefix
	target := c.baseURL
	if c.Authenticated() {
		target += "/a"
	}
	target += endpoint

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.Authenticated() {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.ConnectionError(fmt.Sprintf("request to %s failed", target), err)
	}

	return resp, nil
}

// CheckStatus consumes the response and reports non-2xx statuses as
// remote errors. Use it for endpoints whose body is not needed, such
// as branch deletion.
func (c *Client) CheckStatus(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errors.RemoteError(resp.StatusCode, resp.Request.URL.String(), strings.TrimSpace(string(snippet)))
}

// DecodeResponse checks the status, strips the XSSI guard prefix and
// unmarshals the JSON body into v
func (c *Client) DecodeResponse(resp *http.Response, v interface{}) error {
	body, err := c.readBody(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeResponseMalformed, "failed to decode server response").
			WithContext("url", resp.Request.URL.String())
	}
	return nil
}

// DecodeString checks the status and returns the body as text. Content
// endpoints answer with a base64 string which is returned as-is, not
// decoded further.
func (c *Client) DecodeString(resp *http.Response) (string, error) {
	body, err := c.readBody(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConnectionFailed, "failed to read server response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.RemoteError(resp.StatusCode, resp.Request.URL.String(), strings.TrimSpace(string(body)))
	}

	return stripXSSI(body), nil
}

// stripXSSI removes Gerrit's )]}' guard line when present
func stripXSSI(body []byte) []byte {
	trimmed := bytes.TrimPrefix(body, []byte(xssiPrefix))
	return bytes.TrimLeft(trimmed, "\r\n")
}

// EscapePath percent-encodes one path segment with no characters
// considered safe, so file paths embed cleanly inside REST endpoints
// ("a/b.txt" becomes "a%2Fb.txt")
func EscapePath(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
