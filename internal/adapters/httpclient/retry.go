package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Name    string
	Timeout time.Duration
	Retries int
	WaitMin time.Duration
	WaitMax time.Duration
	// Transport overrides the base round tripper, e.g. an authenticating one.
	Transport http.RoundTripper
}

// New returns a client that retries network failures and 5xx responses with
// exponential backoff. 4xx responses are returned as is. When retries are
// exhausted the last response is handed back unread so callers can log its body.
func New(o Options) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Timeout: o.Timeout, Transport: o.Transport}
	c.RetryMax = o.Retries
	if o.WaitMin > 0 {
		c.RetryWaitMin = o.WaitMin
	}
	if o.WaitMax > 0 {
		c.RetryWaitMax = o.WaitMax
	}
	c.Backoff = retryablehttp.DefaultBackoff
	c.CheckRetry = RetryPolicy
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = leveled{l: log.With().Str("client", o.Name).Logger()}
	return c
}

// RetryPolicy retries transport errors and 5xx only.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil && resp != nil && resp.StatusCode < http.StatusInternalServerError {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type leveled struct{ l zerolog.Logger }

func (z leveled) Error(msg string, kv ...interface{}) { z.l.Error().Fields(kv).Msg(msg) }
func (z leveled) Warn(msg string, kv ...interface{})  { z.l.Warn().Fields(kv).Msg(msg) }
func (z leveled) Info(msg string, kv ...interface{})  { z.l.Debug().Fields(kv).Msg(msg) }
func (z leveled) Debug(msg string, kv ...interface{}) { z.l.Trace().Fields(kv).Msg(msg) }
