package main

import (
	"errors"
	"net/http"
)

var (
	errInvalidInput       = errors.New("invalid input")
	errNotFound           = errors.New("not found")
	errBackendUnavailable = errors.New("backend unavailable")
)

type errorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// anything not recognized is treated as a backend failure
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidInput):
		return http.StatusBadRequest, "invalid_input"

	case errors.Is(err, errNotFound):
		return http.StatusNotFound, "not_found"
	}

	return http.StatusInternalServerError, "backend_unavailable"
}

func failedResponse(summary string, err error) searchResponse {
	status, code := errorStatus(err)

	return searchResponse{
		status: status,
		err:    err,
		data:   errorResponse{Code: code, Error: summary, Details: err.Error()},
	}
}
