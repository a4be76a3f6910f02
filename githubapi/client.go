// Package githubapi implements the authenticated, paginated, cancellable
// HTTP client: a credential-bearing JSON client
// over a GitHub-compatible REST API, built on fasthttp.
package githubapi

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	acceptHeader    = "application/vnd.github.v3+json"
	apiVersion      = "2022-11-28"
	userAgentHeader = "ghbackup/1.0"
)

// Client is a shared, reference-counted HTTP client handle. A single
// instance may safely issue concurrent requests; only fasthttp's
// internal connection pool is shared state.
type Client struct {
	http *fasthttp.Client
}

// NewClient constructs a Client with sane connection-pool defaults.
func NewClient() *Client {
	return &Client{
		http: &fasthttp.Client{
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 30 * time.Second,
			ReadTimeout:         60 * time.Second,
			WriteTimeout:        60 * time.Second,
		},
	}
}

func applyAuth(req *fasthttp.Request, creds entities.Credentials) {
	switch creds.Kind {
	case entities.CredentialsToken:
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	case entities.CredentialsUserPass:
		req.Header.Set("Authorization", basicAuth(creds.Username, creds.Password))
	}
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// applyCommonHeaders sets the headers every request must carry.
func applyCommonHeaders(req *fasthttp.Request) {
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgentHeader)
}

// Get issues a single authenticated GET against url and decodes the
// JSON response body into out.
func (c *Client) Get(url string, creds entities.Credentials, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	if !isParseableURL(url) {
		return cmnerr.User("invalid request URL", url)
	}

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	applyCommonHeaders(req)
	applyAuth(req, creds)

	if err := c.http.Do(req, resp); err != nil {
		return cmnerr.System("request failed", url).WithCause(err)
	}

	return decodeResponse(resp, out)
}

func decodeResponse(resp *fasthttp.Response, out interface{}) error {
	status := resp.StatusCode()
	if status == 401 {
		return cmnerr.User("token rejected by remote API").WithHTTPStatus(status, string(resp.Body()))
	}
	if status < 200 || status >= 300 {
		body := string(resp.Body())
		return cmnerr.System("unexpected response from remote API").
			WithHTTPStatus(status, body).
			WithSuggestions("check the policy's `from` selector and credentials")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return cmnerr.System("unparseable response", "status "+strconv.Itoa(status)).WithCause(err)
	}
	return nil
}

// isParseableURL performs the minimal validation a request URL requires:
// a URL-parse failure is a user error.
func isParseableURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
