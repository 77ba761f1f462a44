package main

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFacetPairs(t *testing.T) {
	tests := []struct {
		name     string
		flat     []interface{}
		expected []facetValue
	}{
		{
			name:     "even length",
			flat:     []interface{}{"siteA", 5, "siteB", 3},
			expected: []facetValue{{Value: "siteA", Count: 5}, {Value: "siteB", Count: 3}},
		},
		{
			name:     "trailing value dropped",
			flat:     []interface{}{"siteA", 5, "siteB"},
			expected: []facetValue{{Value: "siteA", Count: 5}},
		},
		{
			name:     "json numbers",
			flat:     []interface{}{"x", json.Number("12"), "y", json.Number("0")},
			expected: []facetValue{{Value: "x", Count: 12}, {Value: "y", Count: 0}},
		},
		{
			name:     "non-numeric count skipped",
			flat:     []interface{}{"x", "many", "y", float64(2)},
			expected: []facetValue{{Value: "y", Count: 2}},
		},
		{
			name:     "non-string value",
			flat:     []interface{}{json.Number("2024"), json.Number("7"), nil, json.Number("1")},
			expected: []facetValue{{Value: "2024", Count: 7}, {Value: "", Count: 1}},
		},
		{
			name:     "empty",
			flat:     nil,
			expected: []facetValue{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := facetPairs(test.flat)
			if reflect.DeepEqual(got, test.expected) == false {
				t.Fatalf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestFacetValuesFromDecodedResponse(t *testing.T) {
	body := []byte(`{
		"responseHeader": {"status": 0, "QTime": 2},
		"response": {"numFound": 8, "start": 0, "docs": []},
		"facet_counts": {
			"facet_queries": {},
			"facet_fields": {"hash": ["siteA", 5, "siteB", 3]},
			"facet_ranges": {}
		}
	}`)

	solrRes, err := decodeSolrResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := []facetValue{{Value: "siteA", Count: 5}, {Value: "siteB", Count: 3}}
	if got := solrRes.facetValues("hash"); reflect.DeepEqual(got, expected) == false {
		t.Fatalf("expected %v, got %v", expected, got)
	}

	if got := solrRes.facetValues("missing"); len(got) != 0 {
		t.Fatalf("expected no values for unknown field, got %v", got)
	}
}

func TestFacetValuesWithoutFacetBlock(t *testing.T) {
	solrRes, err := decodeSolrResponse([]byte(`{"responseHeader":{"status":0,"QTime":0}}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if got := solrRes.facetValues("hash"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}
