package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSolrRequest struct {
	method   string
	path     string
	rawQuery string
	query    url.Values
	body     []byte
	hasAuth  bool
	user     string
	pass     string
}

// fakeSolr stands in for a single Solr core and records every request
type fakeSolr struct {
	server *httptest.Server

	mu          sync.Mutex
	requests    []fakeSolrRequest
	numFound    int
	facetFields map[string][]interface{}
	failStatus  int           // when set, every request fails with this status
	rawSelect   string        // when set, returned verbatim for select requests
	delay       time.Duration // applied before responding
}

func newFakeSolr(t *testing.T) *fakeSolr {
	t.Helper()

	f := &fakeSolr{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeSolr) baseURL() string {
	return f.server.URL + "/solr"
}

func (f *fakeSolr) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, pass, hasAuth := r.BasicAuth()

	f.mu.Lock()
	f.requests = append(f.requests, fakeSolrRequest{
		method:   r.Method,
		path:     r.URL.Path,
		rawQuery: r.URL.RawQuery,
		query:    r.URL.Query(),
		body:     body,
		hasAuth:  hasAuth,
		user:     user,
		pass:     pass,
	})
	numFound := f.numFound
	facetFields := f.facetFields
	failStatus := f.failStatus
	rawSelect := f.rawSelect
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if failStatus != 0 {
		w.WriteHeader(failStatus)
		io.WriteString(w, `{"responseHeader":{"status":500,"QTime":0},"error":{"msg":"simulated failure","code":500}}`)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/select"):
		if rawSelect != "" {
			io.WriteString(w, rawSelect)
			return
		}
		f.writeSelect(w, r.URL.Query(), numFound, facetFields)

	case strings.HasSuffix(r.URL.Path, "/update"):
		io.WriteString(w, `{"responseHeader":{"status":0,"QTime":3}}`)

	case strings.HasSuffix(r.URL.Path, "/admin/system"):
		io.WriteString(w, `{"responseHeader":{"status":0,"QTime":1},"mode":"std","lucene":{"solr-spec-version":"9.4.0"}}`)

	case strings.HasSuffix(r.URL.Path, "/schema"):
		io.WriteString(w, `{"responseHeader":{"status":0,"QTime":1},"schema":{"name":"test-schema","fields":[{"name":"id","type":"string"}]}}`)

	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"responseHeader":{"status":404,"QTime":0},"error":{"msg":"no such endpoint","code":404}}`)
	}
}

func (f *fakeSolr) writeSelect(w http.ResponseWriter, query url.Values, numFound int, facetFields map[string][]interface{}) {
	start, err := strconv.Atoi(query.Get("start"))
	if err != nil {
		start = 0
	}

	rows, err := strconv.Atoi(query.Get("rows"))
	if err != nil {
		rows = 10
	}

	docs := []map[string]interface{}{}
	for i := start; i < numFound && len(docs) < rows; i++ {
		docs = append(docs, map[string]interface{}{
			"id":        "doc-" + strconv.Itoa(i),
			"hash":      "siteA",
			"_version_": int64(1790000000000000000) + int64(i),
		})
	}

	res := map[string]interface{}{
		"responseHeader": map[string]interface{}{"status": 0, "QTime": 1, "params": map[string]interface{}{"q": query.Get("q")}},
		"response":       map[string]interface{}{"numFound": numFound, "start": start, "docs": docs},
	}

	if query.Get("facet") == "true" {
		res["facet_counts"] = map[string]interface{}{
			"facet_fields":  facetFields,
			"facet_queries": map[string]interface{}{},
			"facet_ranges":  map[string]interface{}{},
		}
	}

	json.NewEncoder(w).Encode(res)
}

func (f *fakeSolr) set(fn func(f *fakeSolr)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func (f *fakeSolr) recorded() []fakeSolrRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]fakeSolrRequest{}, f.requests...)
}

func (f *fakeSolr) requestsTo(suffix string) []fakeSolrRequest {
	var matches []fakeSolrRequest

	for _, req := range f.recorded() {
		if strings.HasSuffix(req.path, suffix) {
			matches = append(matches, req)
		}
	}

	return matches
}

func testConfig(solrURL string) *dashboardConfig {
	return &dashboardConfig{
		solr: solrConfig{
			url:       solrURL,
			core:      "testcore",
			timeoutMS: 2000,
			hashField: defaultHashField,
		},
		listenPort: defaultListenPort,
		logLevel:   defaultLogLevel,
		logFormat:  defaultLogFormat,
	}
}

func newTestPool(t *testing.T, cfg *dashboardConfig) *poolContext {
	t.Helper()

	if cfg.assetsDir == "" {
		cfg.assetsDir = t.TempDir()
	}

	return initializePool(cfg, zap.NewNop().Sugar())
}

func newTestSearchContext(p *poolContext) *searchContext {
	cl := clientContext{}
	cl.init(p, nil)

	s := searchContext{}
	s.init(p, &cl)

	return &s
}

// orderedParams splits a raw query string into decoded key/value pairs,
// preserving their order on the wire.
func orderedParams(t *testing.T, rawQuery string) []solrParam {
	t.Helper()

	var params []solrParam

	for _, piece := range strings.Split(rawQuery, "&") {
		if piece == "" {
			continue
		}

		kv := strings.SplitN(piece, "=", 2)

		key, err := url.QueryUnescape(kv[0])
		if err != nil {
			t.Fatalf("bad key in %q: %s", rawQuery, err)
		}

		value := ""
		if len(kv) == 2 {
			if value, err = url.QueryUnescape(kv[1]); err != nil {
				t.Fatalf("bad value in %q: %s", rawQuery, err)
			}
		}

		params = append(params, solrParam{key: key, value: value})
	}

	return params
}

func valuesFor(params []solrParam, key string) []string {
	var vals []string

	for _, p := range params {
		if p.key == key {
			vals = append(vals, p.value)
		}
	}

	return vals
}
