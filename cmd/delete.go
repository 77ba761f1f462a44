package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type deleteRequest struct {
	ID   *string `json:"id"`
	Hash *string `json:"hash"`
}

type deleteResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedID    string `json:"deletedId,omitempty"`
	DeletedCount int    `json:"deletedCount,omitempty"`
}

const deleteFailure = "Failed to delete document"

func (s *searchContext) handleDeleteRequest(c *gin.Context) searchResponse {
	var req deleteRequest

	// non-string values fail to bind
	if err := c.ShouldBindJSON(&req); err != nil {
		return failedResponse("Document ID or hash is required and must be a string",
			fmt.Errorf("%w: invalid request body: %s", errInvalidInput, err.Error()))
	}

	// values are matched exactly as given; trimming only decides presence
	id := stringValue(req.ID)
	hash := stringValue(req.Hash)

	switch {
	case isBlank(id) == false && isBlank(hash) == false:
		return failedResponse("Specify either a document ID or a hash, not both",
			fmt.Errorf("%w: both id and hash were supplied", errInvalidInput))

	case isBlank(id) == false:
		return s.deleteByID(id)

	case isBlank(hash) == false:
		return s.deleteByHash(hash)
	}

	return failedResponse("Document ID or hash is required and must be a string",
		fmt.Errorf("%w: neither id nor hash was supplied", errInvalidInput))
}

// deleteByID verifies the document exists before deleting it, so that a
// missing id is reported instead of silently deleting nothing.
func (s *searchContext) deleteByID(id string) searchResponse {
	query := solrTermQuery("id", id)

	s.log("[DELETE] verifying document: [%s]", query)

	solrRes, err := s.solrQuery(queryParameters{Q: query, Start: intPtr(0), Rows: intPtr(1)})
	if err != nil {
		return failedResponse(deleteFailure, err)
	}

	if solrRes.Response == nil || solrRes.Response.NumFound == 0 {
		return failedResponse(fmt.Sprintf("Document with ID %q not found", id),
			fmt.Errorf("%w: no document matches [%s]", errNotFound, query))
	}

	if _, err = s.solrDeleteByQuery(query); err != nil {
		return failedResponse(deleteFailure, err)
	}

	s.log("[DELETE] deleted document: [%s]", id)

	res := deleteResponse{
		Success:   true,
		Message:   fmt.Sprintf("Document %q deleted successfully", id),
		DeletedID: id,
	}

	return searchResponse{status: http.StatusOK, data: res}
}

// deleteByHash reports the count observed before the delete.  it is not
// re-checked afterwards: the index may still show stale matches until
// the commit becomes visible.
func (s *searchContext) deleteByHash(hash string) searchResponse {
	query := solrTermQuery(s.pool.config.solr.hashField, hash)

	s.log("[DELETE] counting documents: [%s]", query)

	solrRes, err := s.solrQuery(queryParameters{Q: query, Rows: intPtr(0)})
	if err != nil {
		return failedResponse("Failed to delete documents", err)
	}

	count := 0
	if solrRes.Response != nil {
		count = solrRes.Response.NumFound
	}

	if count == 0 {
		return failedResponse(fmt.Sprintf("No documents found with hash %q", hash),
			fmt.Errorf("%w: no documents match [%s]", errNotFound, query))
	}

	if _, err = s.solrDeleteByQuery(query); err != nil {
		return failedResponse("Failed to delete documents", err)
	}

	s.log("[DELETE] deleted %d document(s) with hash: [%s]", count, hash)

	res := deleteResponse{
		Success:      true,
		Message:      fmt.Sprintf("Deleted %d documents with hash %q", count, hash),
		DeletedCount: count,
	}

	return searchResponse{status: http.StatusOK, data: res}
}
