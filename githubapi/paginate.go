package githubapi

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/entities"
)

// Page is one HTTP page yielded by Paginate: its undecoded body, or a
// terminal error.
type Page struct {
	Body []byte // raw JSON array body of the page
	Err  error
}

// Paginate streams successive pages from startURL, following RFC 5988
// `Link: rel="next"` cursors, onto ch. It is the generic half of every
// source's enumeration; callers decode each page's `[]T` body
// themselves (generics would require this file to be type
// parameterised per caller, so Paginate hands back raw page bodies and
// lets each source do its own typed decode).
//
// Between pages the cancellation flag is checked; if set, the stream
// ends with a user-kind "cancelled" error. The channel is always
// closed when Paginate returns.
func (c *Client) Paginate(ctx context.Context, startURL string, creds entities.Credentials, cancelFlag *cancel.Flag) <-chan Page {
	ch := make(chan Page)
	go func() {
		defer close(ch)
		url := startURL
		for url != "" {
			if cancelFlag != nil && cancelFlag.IsSet() {
				ch <- Page{Err: cmnerr.Cancelled()}
				return
			}
			select {
			case <-ctx.Done():
				ch <- Page{Err: cmnerr.Cancelled().WithCause(ctx.Err())}
				return
			default:
			}

			req := fasthttp.AcquireRequest()
			resp := fasthttp.AcquireResponse()

			req.SetRequestURI(url)
			req.Header.SetMethod(fasthttp.MethodGet)
			applyCommonHeaders(req)
			applyAuth(req, creds)

			err := c.http.Do(req, resp)
			if err != nil {
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				ch <- Page{Err: cmnerr.System("request failed", url).WithCause(err)}
				return
			}

			status := resp.StatusCode()
			if status == 401 {
				body := string(resp.Body())
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				ch <- Page{Err: cmnerr.User("token rejected by remote API").WithHTTPStatus(status, body)}
				return
			}
			if status < 200 || status >= 300 {
				body := string(resp.Body())
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				ch <- Page{Err: cmnerr.System("unexpected response from remote API").WithHTTPStatus(status, body)}
				return
			}

			body := append([]byte(nil), resp.Body()...)
			link := string(resp.Header.Peek("Link"))

			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)

			ch <- Page{Body: body}

			next, ok := parseNextLink(link)
			if !ok {
				return
			}
			url = next
		}
	}()
	return ch
}
