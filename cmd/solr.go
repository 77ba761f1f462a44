package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSolrQuery   = "*:*"
	solrResponseFormat = "json"
	solrErrorBodyLimit = 512
)

var solrMaxResponseBytes = 64 << 20

// solrTermQuery builds an exact-match query for a single field value.
// the value is always quoted, with backslashes and quotes escaped, so it
// cannot be interpreted as query syntax.
func solrTermQuery(field string, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)

	return fmt.Sprintf(`%s:"%s"`, field, escaped)
}

// selectParams converts query parameters into Solr request parameters.
// only fields that are set are emitted; multi-valued fields are emitted
// as repeated keys in their original order.
func selectParams(req queryParameters, hashField string) solrParams {
	var params solrParams

	q := req.Q
	if q == "" {
		q = defaultSolrQuery
	}

	params.add("q", q)

	for _, fq := range req.Fq {
		params.add("fq", fq)
	}

	if req.Hash != "" {
		params.add("fq", solrTermQuery(hashField, req.Hash))
	}

	if req.Sort != "" {
		params.add("sort", req.Sort)
	}

	if req.Start != nil {
		params.add("start", strconv.Itoa(*req.Start))
	}

	if req.Rows != nil {
		params.add("rows", strconv.Itoa(*req.Rows))
	}

	for _, fl := range req.Fl {
		params.add("fl", fl)
	}

	if req.Facet == true {
		params.add("facet", "true")
	}

	for _, field := range req.FacetField {
		params.add("facet.field", field)
	}

	if req.FacetLimit != nil {
		params.add("facet.limit", strconv.Itoa(*req.FacetLimit))
	}

	if req.FacetMinCount != nil {
		params.add("facet.mincount", strconv.Itoa(*req.FacetMinCount))
	}

	wt := req.Wt
	if wt == "" {
		wt = solrResponseFormat
	}

	params.add("wt", wt)

	return params
}

func solrErrorMessage(body []byte) string {
	var solrRes solrResponse

	if err := json.Unmarshal(body, &solrRes); err == nil && solrRes.Error != nil && solrRes.Error.Msg != "" {
		return solrRes.Error.Msg
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > solrErrorBodyLimit {
		msg = msg[:solrErrorBodyLimit] + "..."
	}

	return msg
}

func decodeSolrResponse(body []byte) (*solrResponse, error) {
	var solrRes solrResponse

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := dec.Decode(&solrRes); err != nil {
		return nil, fmt.Errorf("%w: failed to decode solr response: %s", errBackendUnavailable, err.Error())
	}

	if solrRes.ResponseHeader.Status != 0 {
		msg := "unknown error"
		if solrRes.Error != nil && solrRes.Error.Msg != "" {
			msg = solrRes.Error.Msg
		}

		return nil, fmt.Errorf("%w: solr status %d: %s", errBackendUnavailable, solrRes.ResponseHeader.Status, msg)
	}

	solrRes.raw = body

	return &solrRes, nil
}

// solrRequest performs a single round trip against the configured core.
// every failure (transport, timeout, non-2xx) is reported as a backend
// failure; nothing is retried.
func (s *searchContext) solrRequest(method string, endpoint string, params solrParams, body []byte) ([]byte, error) {
	solrURL := s.pool.solr.url + endpoint
	if len(params) > 0 {
		solrURL = solrURL + "?" + params.encode()
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, reqErr := http.NewRequestWithContext(s.client.ctx, method, solrURL, reqBody)
	if reqErr != nil {
		s.err("NewRequest() failed: %s", reqErr.Error())
		return nil, fmt.Errorf("%w: failed to create solr request: %s", errBackendUnavailable, reqErr.Error())
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s.pool.solr.useBasicAuth == true {
		req.SetBasicAuth(s.pool.config.solr.username, s.pool.config.solr.password)
	}

	if s.client.opts.verbose == true {
		s.log("[SOLR] req: %s %s", method, solrURL)
		if body != nil {
			s.log("[SOLR] req body: %s", string(body))
		}
	} else {
		s.log("[SOLR] req: %s %s", method, endpoint)
	}

	start := time.Now()
	res, resErr := s.pool.solr.client.Do(req)
	elapsed := time.Since(start)
	elapsedMS := elapsed.Milliseconds()

	if resErr != nil {
		errMsg := resErr.Error()

		var netErr net.Error
		if errors.As(resErr, &netErr) && netErr.Timeout() {
			errMsg = fmt.Sprintf("%s%s timed out after %d ms", s.pool.solr.url, endpoint, s.pool.config.solr.timeoutMS)
		} else if strings.Contains(errMsg, "connection refused") {
			errMsg = fmt.Sprintf("%s%s refused connection", s.pool.solr.url, endpoint)
		}

		observeSolrRequest(endpoint, "error", elapsed)
		s.err("[SOLR] client.Do() failed: %s. Elapsed Time: %d (ms)", resErr.Error(), elapsedMS)

		return nil, fmt.Errorf("%w: %s", errBackendUnavailable, errMsg)
	}

	defer res.Body.Close()

	// one byte past the limit tells an oversized body from one that fits exactly
	resBody, readErr := io.ReadAll(io.LimitReader(res.Body, int64(solrMaxResponseBytes)+1))
	if readErr != nil {
		observeSolrRequest(endpoint, "error", elapsed)
		s.err("[SOLR] failed reading response from %s %s: %s", method, endpoint, readErr.Error())

		return nil, fmt.Errorf("%w: failed to read solr response: %s", errBackendUnavailable, readErr.Error())
	}

	if len(resBody) > solrMaxResponseBytes {
		observeSolrRequest(endpoint, "error", elapsed)
		s.err("[SOLR] response from %s %s exceeds %d bytes", method, endpoint, solrMaxResponseBytes)

		return nil, fmt.Errorf("%w: solr response exceeds limit of %d bytes", errBackendUnavailable, solrMaxResponseBytes)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := solrErrorMessage(resBody)

		observeSolrRequest(endpoint, "error", elapsed)
		s.err("[SOLR] failed response from %s %s - %d: %s. Elapsed Time: %d (ms)", method, endpoint, res.StatusCode, msg, elapsedMS)

		return nil, fmt.Errorf("%w: solr returned status %d: %s", errBackendUnavailable, res.StatusCode, msg)
	}

	observeSolrRequest(endpoint, "ok", elapsed)
	s.log("[SOLR] successful response from %s %s. Elapsed Time: %d (ms)", method, endpoint, elapsedMS)

	return resBody, nil
}

func (s *searchContext) solrGet(endpoint string, params solrParams) (*solrResponse, error) {
	body, err := s.solrRequest(http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}

	solrRes, err := decodeSolrResponse(body)
	if err != nil {
		s.err("[SOLR] %s", err.Error())
		return nil, err
	}

	return solrRes, nil
}

// solrQuery runs a select request built from params.
func (s *searchContext) solrQuery(params queryParameters) (*solrResponse, error) {
	solrRes, err := s.solrGet("/select", selectParams(params, s.pool.config.solr.hashField))
	if err != nil {
		return nil, err
	}

	if solrRes.Response != nil {
		s.log("[SOLR] res: header: { status = %d, QTime = %d }, body: { numFound = %d, start = %d, docs = %d }",
			solrRes.ResponseHeader.Status, solrRes.ResponseHeader.QTime,
			solrRes.Response.NumFound, solrRes.Response.Start, len(solrRes.Response.Docs))
	}

	return solrRes, nil
}

// solrDeleteByQuery issues a committed delete-by-query update.  callers
// are responsible for building an exact-match query (see solrTermQuery).
func (s *searchContext) solrDeleteByQuery(query string) (*solrResponse, error) {
	cmd := solrUpdateCommand{Delete: &solrDeleteCommand{Query: query}}

	jsonBytes, jsonErr := json.Marshal(cmd)
	if jsonErr != nil {
		s.err("Marshal() failed: %s", jsonErr.Error())
		return nil, fmt.Errorf("%w: failed to marshal solr update: %s", errBackendUnavailable, jsonErr.Error())
	}

	var params solrParams
	params.add("commit", "true")
	params.add("wt", solrResponseFormat)

	body, err := s.solrRequest(http.MethodPost, "/update", params, jsonBytes)
	if err != nil {
		return nil, err
	}

	solrRes, err := decodeSolrResponse(body)
	if err != nil {
		s.err("[SOLR] %s", err.Error())
		return nil, err
	}

	s.log("[SOLR] delete: [%s] acknowledged (QTime = %d)", query, solrRes.ResponseHeader.QTime)

	return solrRes, nil
}

func (s *searchContext) solrCoreStatus() (*solrResponse, error) {
	var params solrParams
	params.add("wt", solrResponseFormat)

	return s.solrGet("/admin/system", params)
}

func (s *searchContext) solrSchema() (*solrResponse, error) {
	var params solrParams
	params.add("wt", solrResponseFormat)

	return s.solrGet("/schema", params)
}

// solrPing runs a zero-row match-all query and reports any failure.
func (s *searchContext) solrPing() error {
	_, err := s.solrQuery(queryParameters{Q: defaultSolrQuery, Rows: intPtr(0)})

	return err
}

// solrTestConnection is a liveness probe: every failure collapses to
// false.  use solrPing or solrQuery when the reason matters.
func (s *searchContext) solrTestConnection() bool {
	if err := s.solrPing(); err != nil {
		s.log("[SOLR] connection test failed: %s", err.Error())
		return false
	}

	return true
}
