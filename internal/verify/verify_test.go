package verify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"clawledge/internal/dataset"
	"clawledge/internal/stats"
	"clawledge/pkg/models"
)

func newServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusGone) })
	mux.HandleFunc("/missing", http.NotFound)
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) })
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/new", http.StatusMovedPermanently) })
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		switch target := r.URL.Query().Get("url"); {
		case strings.HasSuffix(target, "/status/1"):
		case strings.HasSuffix(target, "/status/404"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	return httptest.NewServer(mux)
}

func testChecker(t *testing.T, srv *httptest.Server) *Checker {
	ch := NewChecker(zaptest.NewLogger(t))
	ch.Client = srv.Client()
	ch.Timeout = 100 * time.Millisecond
	ch.Delay = time.Millisecond
	ch.OEmbedURL = srv.URL + "/oembed?url="
	return ch
}

func mkCase(id, url string) models.Case {
	return models.Case{ID: id, Source: models.Source{URL: url}}
}

func TestCheckClassifiesOutcomes(t *testing.T) {
	defer goleak.VerifyNone(t)
	srv := newServer()
	defer srv.Close()

	cases := []models.Case{
		mkCase("ok", srv.URL+"/ok"),
		mkCase("gone", srv.URL+"/gone"),
		mkCase("missing", srv.URL+"/missing"),
		mkCase("forbidden", srv.URL+"/forbidden"),
		mkCase("boom", srv.URL+"/boom"),
		mkCase("moved", srv.URL+"/old"),
		mkCase("slow", srv.URL+"/slow"),
		mkCase("no-url", ""),
		mkCase("bad-url", "not a url"),
		mkCase("tweet", "https://x.com/ada/status/1"),
		mkCase("deleted-tweet", "https://twitter.com/ada/status/404"),
		mkCase("tweet-unknown", "https://www.x.com/ada/status/2"),
		mkCase("linkedin", "https://www.linkedin.com/posts/ada"),
	}

	var calls []int
	ch := testChecker(t, srv)
	ch.Progress = func(done, total int) {
		assert.Equal(t, len(cases), total)
		calls = append(calls, done)
	}

	rep, err := ch.Check(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, rep.Results, len(cases))
	assert.Equal(t, []int{5, 10, 13}, calls)

	want := map[string]Status{
		"ok": StatusOK, "gone": StatusGone, "missing": StatusGone, "forbidden": StatusBlocked,
		"boom": StatusError, "moved": StatusRedirect, "slow": StatusTimeout, "no-url": StatusError,
		"bad-url": StatusError, "tweet": StatusOK, "deleted-tweet": StatusGone,
		"tweet-unknown": StatusBlocked, "linkedin": StatusBlocked,
	}
	for i, res := range rep.Results {
		assert.Equal(t, cases[i].ID, res.ID)
		assert.Equal(t, want[res.ID], res.Status, res.ID)
	}

	assert.Equal(t, srv.URL+"/new", rep.Results[5].RedirectTo)
	assert.Equal(t, "404 (oEmbed)", rep.Results[10].Detail)
	assert.Equal(t, "NO_URL", rep.Results[7].Detail)
	assert.Equal(t, "TIMEOUT", rep.Results[6].Detail)

	counts := rep.Counts()
	assert.Equal(t, 2, counts[StatusOK])
	assert.Equal(t, 3, counts[StatusGone])
	assert.Len(t, rep.Broken(), 7)
	assert.Len(t, rep.Redirected(), 1)

	var buf bytes.Buffer
	WriteReport(&buf, rep)
	assert.Contains(t, buf.String(), "OK: 2 | Redirect: 1 | Blocked: 3 | Gone: 3 | Timeout: 1 | Error: 3")
}

func TestCheckSendsUserAgent(t *testing.T) {
	defer goleak.VerifyNone(t)
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	ch := testChecker(t, srv)
	res := ch.CheckOne(context.Background(), mkCase("a", srv.URL))
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, DefaultUserAgent, <-got)
}

func TestCheckStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	srv := newServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cases := make([]models.Case, 12)
	for i := range cases {
		cases[i] = mkCase("c", srv.URL+"/ok")
	}
	rep, err := testChecker(t, srv).Check(ctx, cases)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rep.Results, DefaultBatchSize)
}

func TestFixAndFilter(t *testing.T) {
	ds, err := dataset.Decode([]byte(`[
		{"id":"crypto-bot","verified":true,"source":{"url":"https://a"}},
		{"id":"crypto-dead","verified":false,"source":{"url":"https://b"}},
		{"id":"notes","verified":true,"source":{"url":"https://c"}}
	]`))
	require.NoError(t, err)

	filtered := FilterID(ds.Cases(), "crypto")
	require.Len(t, filtered, 2)
	assert.Len(t, FilterID(ds.Cases(), ""), 3)

	rep := Report{Results: []Result{
		{ID: "crypto-bot", Status: StatusGone},
		{ID: "crypto-dead", Status: StatusTimeout},
		{ID: "notes", Status: StatusBlocked},
	}}
	assert.Equal(t, 1, Fix(ds, rep))
	c, _ := ds.Get("crypto-bot")
	assert.False(t, c.Verified)
	c, _ = ds.Get("notes")
	assert.True(t, c.Verified)
}

func TestWriteAuthors(t *testing.T) {
	var buf bytes.Buffer
	WriteAuthors(&buf, []stats.Author{{Handle: "@ada", Count: 3, Profile: "https://x.com/ada"}, {Handle: "Bo", Count: 2}})
	out := buf.String()
	assert.Contains(t, out, "3 cases → https://x.com/ada")
	assert.Contains(t, out, "Bo")
}

func TestOnHost(t *testing.T) {
	assert.True(t, onHost("x.com", "x.com"))
	assert.True(t, onHost("mobile.twitter.com", "twitter.com"))
	assert.False(t, onHost("netflix.com", "x.com"))
}
