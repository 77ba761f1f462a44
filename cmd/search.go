package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"
)

type searchContext struct {
	pool   *poolContext
	client *clientContext
}

type searchResponse struct {
	status int         // http status code
	data   interface{} // data to return as JSON
	raw    []byte      // verbatim JSON to return instead of data
	err    error       // error, if any
}

type configResponse struct {
	SolrURL          string  `json:"solrUrl"`
	SolrCore         string  `json:"solrCore"`
	ShowUniqueValues *string `json:"showUniqueValues"`
	HashField        string  `json:"hashField"`
}

type connectionTestResponse struct {
	Connected bool `json:"connected"`
}

func (s *searchContext) init(p *poolContext, c *clientContext) {
	s.pool = p
	s.client = c
}

func (s *searchContext) log(format string, args ...interface{}) {
	s.client.log(format, args...)
}

func (s *searchContext) err(format string, args ...interface{}) {
	s.client.err(format, args...)
}

// never includes credentials
func (s *searchContext) handleConfigRequest() searchResponse {
	cfg := configResponse{
		SolrURL:   s.pool.config.solr.url,
		SolrCore:  s.pool.config.solr.core,
		HashField: s.pool.config.solr.hashField,
	}

	if s.pool.config.showUniqueValues != "" {
		field := s.pool.config.showUniqueValues
		cfg.ShowUniqueValues = &field
	}

	return searchResponse{status: http.StatusOK, data: cfg}
}

func (s *searchContext) handleConnectionRequest(action string) searchResponse {
	const summary = "Failed to execute action"

	switch action {
	case "test":
		return searchResponse{status: http.StatusOK, data: connectionTestResponse{Connected: s.solrTestConnection()}}

	case "info":
		solrRes, err := s.solrCoreStatus()
		if err != nil {
			return failedResponse(summary, err)
		}

		return searchResponse{status: http.StatusOK, raw: solrRes.raw}

	case "schema":
		solrRes, err := s.solrSchema()
		if err != nil {
			return failedResponse(summary, err)
		}

		return searchResponse{status: http.StatusOK, raw: solrRes.raw}
	}

	return failedResponse("Invalid action. Use: test, info, or schema",
		fmt.Errorf("%w: unknown action: [%s]", errInvalidInput, action))
}

type healthCheckStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

func (s *searchContext) handleHealthCheckRequest() searchResponse {
	hcMap := make(map[string]healthCheckStatus)

	if err := s.solrPing(); err != nil {
		hcMap["solr"] = healthCheckStatus{Healthy: false, Message: err.Error()}
		return searchResponse{status: http.StatusInternalServerError, data: hcMap, err: err}
	}

	hcMap["solr"] = healthCheckStatus{Healthy: true}

	return searchResponse{status: http.StatusOK, data: hcMap}
}

// decodeQueryParameters converts a loosely typed request (JSON body or
// query string) into query parameters.  numbers and booleans may arrive
// as strings, and single values are accepted where lists are expected.
func decodeQueryParameters(input map[string]interface{}) (queryParameters, error) {
	var params queryParameters

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &params,
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
	}

	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return params, err
	}

	if err := dec.Decode(input); err != nil {
		return params, fmt.Errorf("%w: %s", errInvalidInput, err.Error())
	}

	return params, nil
}

func validateQueryParameters(params queryParameters) error {
	if params.Start != nil && *params.Start < 0 {
		return fmt.Errorf("%w: start must be non-negative", errInvalidInput)
	}

	if params.Rows != nil && *params.Rows < 0 {
		return fmt.Errorf("%w: rows must be non-negative", errInvalidInput)
	}

	if params.Wt != "" && params.Wt != solrResponseFormat {
		return fmt.Errorf("%w: unsupported response format: [%s]", errInvalidInput, params.Wt)
	}

	return nil
}

// query string requests default to the first ten matches
func queryInputFromValues(values url.Values) map[string]interface{} {
	input := map[string]interface{}{
		"start": "0",
		"rows":  "10",
	}

	for key, vals := range values {
		if len(vals) == 1 {
			input[key] = vals[0]
		} else {
			input[key] = vals
		}
	}

	return input
}

func queryInputFromBody(body io.Reader) (map[string]interface{}, error) {
	var input map[string]interface{}

	dec := json.NewDecoder(body)
	dec.UseNumber()

	if err := dec.Decode(&input); err != nil && errors.Is(err, io.EOF) == false {
		return nil, fmt.Errorf("%w: invalid JSON body: %s", errInvalidInput, err.Error())
	}

	if input == nil {
		input = make(map[string]interface{})
	}

	return input, nil
}

func (s *searchContext) executeQuery(params queryParameters) searchResponse {
	const summary = "Failed to execute Solr query"

	if err := validateQueryParameters(params); err != nil {
		return failedResponse(summary, err)
	}

	s.log("[QUERY] q: [%s]  fq: [%s]", params.Q, strings.Join(params.Fq, "; "))

	solrRes, err := s.solrQuery(params)
	if err != nil {
		return failedResponse(summary, err)
	}

	return searchResponse{status: http.StatusOK, raw: solrRes.raw}
}

func (s *searchContext) handleQueryRequest(c *gin.Context) searchResponse {
	var input map[string]interface{}

	if c.Request.Method == http.MethodGet {
		input = queryInputFromValues(c.Request.URL.Query())
	} else {
		var err error
		if input, err = queryInputFromBody(c.Request.Body); err != nil {
			return failedResponse("Failed to execute Solr query", err)
		}
	}

	params, err := decodeQueryParameters(input)
	if err != nil {
		return failedResponse("Failed to execute Solr query", err)
	}

	return s.executeQuery(params)
}
