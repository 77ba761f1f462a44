package tests

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// these tests run against a deployed dashboard service.  the endpoint comes
// from service_test.yml, or TC_ENDPOINT; with neither set they are skipped.

type testConfig struct {
	Endpoint string `yaml:"endpoint"`
}

var cfg = loadConfig()

var httpClient = &http.Client{Timeout: 30 * time.Second}

func loadConfig() testConfig {
	var c testConfig

	data, err := os.ReadFile("service_test.yml")
	if err != nil && errors.Is(err, fs.ErrNotExist) == false {
		log.Fatal(err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			log.Fatal(err)
		}
	}

	// allow environment variables to override the configuration file
	if len(os.Getenv("TC_ENDPOINT")) != 0 {
		c.Endpoint = os.Getenv("TC_ENDPOINT")
	}

	c.Endpoint = strings.TrimRight(c.Endpoint, "/")

	log.Printf("endpoint [%s]\n", c.Endpoint)

	return c
}

func requireEndpoint(t *testing.T) {
	t.Helper()

	if emptyField(cfg.Endpoint) == true {
		t.Skip("no service endpoint configured (set TC_ENDPOINT)")
	}
}

func emptyField(field string) bool {
	return len(strings.TrimSpace(field)) == 0
}

// getJSON issues a GET and decodes the response body into v (when non-nil)
func getJSON(t *testing.T, path string, v interface{}) int {
	t.Helper()

	return doJSON(t, http.MethodGet, path, "", v)
}

func doJSON(t *testing.T, method string, path string, body string, v interface{}) int {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, cfg.Endpoint+path, reqBody)
	if err != nil {
		t.Fatalf("NewRequest() failed: %s", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %s", method, path, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s failed: %s", path, err)
	}

	if v != nil {
		if err := json.Unmarshal(data, v); err != nil {
			t.Fatalf("invalid JSON from %s: %s", path, err)
		}
	}

	return resp.StatusCode
}

//
// end of file
//
