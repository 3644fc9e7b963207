// Package verify checks that case source URLs still resolve.
package verify

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clawledge/internal/dataset"
	"clawledge/pkg/models"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusRedirect Status = "redirect"
	StatusBlocked  Status = "blocked"
	StatusGone     Status = "gone"
	StatusTimeout  Status = "timeout"
	StatusError    Status = "error"
)

// Statuses is the report order.
var Statuses = []Status{StatusOK, StatusRedirect, StatusBlocked, StatusGone, StatusTimeout, StatusError}

const (
	DefaultBatchSize = 5
	DefaultTimeout   = 10 * time.Second
	DefaultDelay     = 200 * time.Millisecond
	DefaultUserAgent = "Mozilla/5.0 (compatible; ClawledgeBot/1.0)"
	DefaultOEmbedURL = "https://publish.twitter.com/oembed?url="
)

// DefaultBlockedHosts refuse anonymous HEAD requests.
var DefaultBlockedHosts = []string{"x.com", "twitter.com", "instagram.com", "facebook.com", "linkedin.com"}

// Result is the outcome for one case.
type Result struct {
	ID         string
	URL        string
	Status     Status
	Detail     string
	RedirectTo string
}

// Broken reports whether the result counts against the case.
func (r Result) Broken() bool {
	switch r.Status {
	case StatusGone, StatusTimeout, StatusError:
		return true
	}
	return false
}

type Report struct {
	Results []Result
}

func (r Report) Counts() map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, res := range r.Results {
		out[res.Status]++
	}
	return out
}

func (r Report) Broken() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Broken() {
			out = append(out, res)
		}
	}
	return out
}

func (r Report) Redirected() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusRedirect {
			out = append(out, res)
		}
	}
	return out
}

// Checker checks URLs in batches. Requests inside a batch run concurrently;
// batches run one after another with Delay between them.
type Checker struct {
	Client       *http.Client
	BatchSize    int
	Timeout      time.Duration
	Delay        time.Duration
	UserAgent    string
	OEmbedURL    string
	BlockedHosts []string
	Logger       *zap.Logger
	// Progress, when set, is called after each batch.
	Progress func(done, total int)
}

func NewChecker(logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		Client:       &http.Client{},
		BatchSize:    DefaultBatchSize,
		Timeout:      DefaultTimeout,
		Delay:        DefaultDelay,
		UserAgent:    DefaultUserAgent,
		OEmbedURL:    DefaultOEmbedURL,
		BlockedHosts: DefaultBlockedHosts,
		Logger:       logger,
	}
}

// Check tests every case. Results keep input order. Only cancellation of
// ctx is returned as an error.
func (ch *Checker) Check(ctx context.Context, cases []models.Case) (Report, error) {
	results := make([]Result, len(cases))
	size := ch.BatchSize
	if size < 1 {
		size = 1
	}

	for start := 0; start < len(cases); start += size {
		end := min(start+size, len(cases))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = ch.CheckOne(gctx, cases[i])
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return Report{Results: results[:end]}, err
		}
		if ch.Progress != nil {
			ch.Progress(end, len(cases))
		}
		if end < len(cases) && ch.Delay > 0 {
			select {
			case <-ctx.Done():
				return Report{Results: results[:end]}, ctx.Err()
			case <-time.After(ch.Delay):
			}
		}
	}
	return Report{Results: results}, nil
}

// CheckOne checks a single case source URL.
func (ch *Checker) CheckOne(ctx context.Context, c models.Case) Result {
	res := Result{ID: c.ID, URL: c.Source.URL}
	if res.URL == "" {
		res.URL = "(missing)"
		res.Status, res.Detail = StatusError, "NO_URL"
		return res
	}

	u, err := url.Parse(c.Source.URL)
	if err != nil || u.Hostname() == "" {
		res.Status, res.Detail = StatusError, "INVALID_URL"
		return res
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if ch.blocked(host) {
		if onHost(host, "x.com") || onHost(host, "twitter.com") {
			if st, ok := ch.oembed(ctx, c.Source.URL); ok {
				res.Status = st
				if st == StatusGone {
					res.Detail = "404 (oEmbed)"
				}
				return res
			}
		}
		res.Status = StatusBlocked
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, ch.timeout())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.Source.URL, nil)
	if err != nil {
		res.Status, res.Detail = StatusError, err.Error()
		return res
	}
	req.Header.Set("User-Agent", ch.UserAgent)

	resp, err := ch.client().Do(req)
	if err != nil {
		if isTimeout(err) {
			res.Status, res.Detail = StatusTimeout, "TIMEOUT"
		} else {
			res.Status, res.Detail = StatusError, err.Error()
		}
		ch.Logger.Debug("url check failed", zap.String("id", c.ID), zap.Error(err))
		return res
	}
	resp.Body.Close()

	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		res.Status = StatusOK
		if final := resp.Request.URL; final.String() != c.Source.URL && final.Path != u.Path {
			res.Status, res.RedirectTo = StatusRedirect, final.String()
		}
	case code == http.StatusForbidden || code == http.StatusTooManyRequests:
		res.Status = StatusBlocked
	case code == http.StatusNotFound || code == http.StatusGone:
		res.Status, res.Detail = StatusGone, strconv.Itoa(code)
	default:
		res.Status, res.Detail = StatusError, strconv.Itoa(code)
	}
	return res
}

// oembed asks the public embed endpoint about a post. ok is false when the
// answer says nothing either way.
func (ch *Checker) oembed(ctx context.Context, target string) (Status, bool) {
	if ch.OEmbedURL == "" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, ch.timeout())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ch.OEmbedURL+url.QueryEscape(target), nil)
	if err != nil {
		return "", false
	}
	resp, err := ch.client().Do(req)
	if err != nil {
		return "", false
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return StatusOK, true
	case resp.StatusCode == http.StatusNotFound:
		return StatusGone, true
	}
	return "", false
}

func (ch *Checker) blocked(host string) bool {
	for _, h := range ch.BlockedHosts {
		if onHost(host, h) {
			return true
		}
	}
	return false
}

// onHost reports whether host is domain or one of its subdomains.
func onHost(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func (ch *Checker) client() *http.Client {
	if ch.Client == nil {
		return http.DefaultClient
	}
	return ch.Client
}

func (ch *Checker) timeout() time.Duration {
	if ch.Timeout <= 0 {
		return DefaultTimeout
	}
	return ch.Timeout
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Fix clears the verified flag of every broken case in ds and returns how
// many records changed.
func Fix(ds *dataset.Dataset, rep Report) int {
	ids := map[string]bool{}
	for _, r := range rep.Broken() {
		ids[r.ID] = true
	}
	return ds.SetVerified(ids, false)
}

// FilterID keeps cases whose id contains pattern.
func FilterID(cases []models.Case, pattern string) []models.Case {
	if pattern == "" {
		return cases
	}
	var out []models.Case
	for _, c := range cases {
		if strings.Contains(c.ID, pattern) {
			out = append(out, c)
		}
	}
	return out
}
