package main

import (
	"encoding/json"
	"net/url"
	"strings"
)

// queryParameters is the structured form of a dashboard query.  pointer
// and slice fields distinguish "unset" (nil, never sent to Solr) from an
// explicit value.
type queryParameters struct {
	Q             string   `json:"q,omitempty"`
	Fq            []string `json:"fq,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	Start         *int     `json:"start,omitempty"`
	Rows          *int     `json:"rows,omitempty"`
	Fl            []string `json:"fl,omitempty"`
	Facet         bool     `json:"facet,omitempty"`
	FacetField    []string `json:"facet.field,omitempty"`
	FacetLimit    *int     `json:"facet.limit,omitempty"`
	FacetMinCount *int     `json:"facet.mincount,omitempty"`
	Wt            string   `json:"wt,omitempty"`
	Hash          string   `json:"hash,omitempty"` // dashboard-level filter on the hash field
}

// solrParams keeps request parameters in insertion order; url.Values
// would sort the keys on encode.
type solrParam struct {
	key   string
	value string
}

type solrParams []solrParam

func (p *solrParams) add(key string, value string) {
	*p = append(*p, solrParam{key: key, value: value})
}

func (p solrParams) encode() string {
	pieces := make([]string, 0, len(p))

	for _, param := range p {
		pieces = append(pieces, url.QueryEscape(param.key)+"="+url.QueryEscape(param.value))
	}

	return strings.Join(pieces, "&")
}

type solrResponseHeader struct {
	Status int                    `json:"status"`
	QTime  int                    `json:"QTime"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// documents are decoded with json.Number, so values are limited to
// string, json.Number, bool, nil, []interface{} and map[string]interface{}
type solrDocument map[string]interface{}

type solrResponseDocuments struct {
	NumFound int            `json:"numFound"`
	Start    int            `json:"start"`
	Docs     []solrDocument `json:"docs"`
}

type solrFacetCounts struct {
	FacetFields  map[string][]interface{} `json:"facet_fields,omitempty"`
	FacetQueries map[string]json.Number   `json:"facet_queries,omitempty"`
	FacetRanges  map[string]interface{}   `json:"facet_ranges,omitempty"`
}

type solrError struct {
	Metadata []string `json:"metadata,omitempty"`
	Msg      string   `json:"msg,omitempty"`
	Code     int      `json:"code,omitempty"`
}

// a catch-all for select, update and admin responses
type solrResponse struct {
	ResponseHeader solrResponseHeader     `json:"responseHeader"`
	Response       *solrResponseDocuments `json:"response,omitempty"`
	FacetCounts    *solrFacetCounts       `json:"facet_counts,omitempty"`
	Error          *solrError             `json:"error,omitempty"`
	raw            []byte                 // body exactly as Solr sent it
}

type solrDeleteCommand struct {
	Query string `json:"query"`
}

type solrUpdateCommand struct {
	Delete *solrDeleteCommand `json:"delete,omitempty"`
}
