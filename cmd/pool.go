package main

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// git commit used for this build; supplied at compile time
var gitCommit string

type poolVersion struct {
	BuildVersion string `json:"build,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
}

type poolSolr struct {
	client       *http.Client
	url          string // base url including the core
	useBasicAuth bool
}

type poolContext struct {
	config  *dashboardConfig
	logger  *zap.SugaredLogger
	version poolVersion
	solr    poolSolr
}

func (p *poolContext) initVersion() {
	buildVersion := "unknown"
	files, _ := filepath.Glob("buildtag.*")
	if len(files) == 1 {
		buildVersion = strings.Replace(files[0], "buildtag.", "", 1)
	}

	p.version = poolVersion{
		BuildVersion: buildVersion,
		GoVersion:    fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		GitCommit:    gitCommit,
	}

	p.logger.Infof("[POOL] version.BuildVersion = [%s]", p.version.BuildVersion)
	p.logger.Infof("[POOL] version.GoVersion    = [%s]", p.version.GoVersion)
	p.logger.Infof("[POOL] version.GitCommit    = [%s]", p.version.GitCommit)
}

func (p *poolContext) initSolr() {
	timeout := time.Duration(p.config.solr.timeoutMS) * time.Millisecond

	solrClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:        100, // we are hitting one solr host, so
			MaxIdleConnsPerHost: 100, // these two values can be the same
			IdleConnTimeout:     90 * time.Second,
		},
	}

	p.solr = poolSolr{
		client:       solrClient,
		url:          fmt.Sprintf("%s/%s", p.config.solr.url, url.PathEscape(p.config.solr.core)),
		useBasicAuth: p.config.solr.username != "" && p.config.solr.password != "",
	}

	p.logger.Infof("[POOL] solr.url             = [%s]", p.solr.url)
	p.logger.Infof("[POOL] solr.timeout         = [%s]", timeout)
	p.logger.Infof("[POOL] solr.useBasicAuth    = [%v]", p.solr.useBasicAuth)
}

func initializePool(cfg *dashboardConfig, logger *zap.SugaredLogger) *poolContext {
	p := poolContext{}

	p.config = cfg
	p.logger = logger

	p.initVersion()
	p.initSolr()

	return &p
}
