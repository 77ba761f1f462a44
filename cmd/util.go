package main

import (
	"net/url"
	"strconv"
	"strings"
)

// miscellaneous utility functions

func sliceContainsString(haystack []string, needle string, insensitive bool) bool {
	if len(haystack) == 0 {
		return false
	}

	for _, item := range haystack {
		a := item
		b := needle

		if insensitive == true {
			a = strings.ToLower(item)
			b = strings.ToLower(needle)
		}

		if a == b {
			return true
		}
	}

	return false
}

func boolOptionWithFallback(opt string, fallback bool) bool {
	var err error
	var val bool

	if val, err = strconv.ParseBool(opt); err != nil {
		val = fallback
	}

	return val
}

func integerWithFallback(str string, min int, fallback int) int {
	val, err := strconv.Atoi(strings.TrimSpace(str))

	// fallback for invalid or nonsensical values
	if err != nil || val < min {
		val = fallback
	}

	return val
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

func intPtr(i int) *int {
	return &i
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// whitespace-only values count as missing
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
