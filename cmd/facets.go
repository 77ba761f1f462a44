package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultValuesLimit    = 100
	defaultValuesMinCount = 1
)

type facetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type valuesResponse struct {
	Field    string       `json:"field"`
	Values   []facetValue `json:"values"`
	NumFound int          `json:"numFound"`
}

func facetLabel(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	}

	return fmt.Sprint(v)
}

func facetCount(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}

		if f, err := val.Float64(); err == nil {
			return int64(f), true
		}

	case float64:
		return int64(val), true

	case int:
		return int64(val), true

	case int64:
		return val, true
	}

	return 0, false
}

// facetPairs converts Solr's flat facet list ([v0, c0, v1, c1, ...]) into
// ordered value/count pairs.  a trailing unmatched value, or a pair whose
// count is not numeric, is dropped.
func facetPairs(flat []interface{}) []facetValue {
	pairs := []facetValue{}

	for i := 0; i+1 < len(flat); i += 2 {
		count, ok := facetCount(flat[i+1])
		if ok == false {
			continue
		}

		pairs = append(pairs, facetValue{Value: facetLabel(flat[i]), Count: count})
	}

	return pairs
}

func (r *solrResponse) facetValues(field string) []facetValue {
	if r.FacetCounts == nil {
		return []facetValue{}
	}

	return facetPairs(r.FacetCounts.FacetFields[field])
}

func integerOption(c *gin.Context, name string, fallback int) (int, error) {
	str := c.Query(name)
	if str == "" {
		return fallback, nil
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer: [%s]", errInvalidInput, name, str)
	}

	return val, nil
}

// handleValuesRequest lists the distinct values of a field, most frequent
// first.
func (s *searchContext) handleValuesRequest(c *gin.Context) searchResponse {
	const summary = "Failed to fetch unique values"

	field := c.Query("field")
	if field == "" {
		field = s.pool.config.showUniqueValues
	}

	if field == "" {
		field = s.pool.config.solr.hashField
	}

	limit, err := integerOption(c, "limit", defaultValuesLimit)
	if err != nil {
		return failedResponse(summary, err)
	}

	mincount, err := integerOption(c, "mincount", defaultValuesMinCount)
	if err != nil {
		return failedResponse(summary, err)
	}

	params := queryParameters{
		Q:             defaultSolrQuery,
		Rows:          intPtr(0),
		Facet:         true,
		FacetField:    []string{field},
		FacetLimit:    &limit,
		FacetMinCount: &mincount,
	}

	solrRes, err := s.solrQuery(params)
	if err != nil {
		return failedResponse(summary, err)
	}

	values := []facetValue{}

	for _, pair := range solrRes.facetValues(field) {
		if pair.Value == "" || pair.Count <= 0 {
			continue
		}

		values = append(values, pair)
	}

	sort.SliceStable(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}

		return values[i].Value < values[j].Value
	})

	res := valuesResponse{Field: field, Values: values}
	if solrRes.Response != nil {
		res.NumFound = solrRes.Response.NumFound
	}

	return searchResponse{status: http.StatusOK, data: res}
}
