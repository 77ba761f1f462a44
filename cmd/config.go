package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultSolrURL       = "http://localhost:8983/solr"
	defaultSolrCore      = "your_core_name"
	defaultSolrTimeoutMS = 30000
	defaultHashField     = "hash"
	defaultListenPort    = "8080"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultAssetsDir     = "./assets"
)

type solrConfig struct {
	url       string
	core      string
	timeoutMS int
	username  string
	password  string
	hashField string
}

type dashboardConfig struct {
	solr             solrConfig
	showUniqueValues string
	listenPort       string
	logLevel         string
	logFormat        string
	assetsDir        string
	enablePprof      bool
}

func envWithDefault(env string, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(env)); val != "" {
		return val
	}

	return fallback
}

// loadConfig reads the process configuration from the environment, after
// first merging in envFile (if given and present).  variables already set
// in the environment take precedence over the file.  the returned config is
// always populated, even when an error is returned, so that callers can
// still set up logging before bailing out.
func loadConfig(envFile string) (*dashboardConfig, error) {
	var v stringValidator

	v.setPrefix("[CONFIG] ")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && errors.Is(err, fs.ErrNotExist) == false {
			v.addProblem("unable to load %s: %s", envFile, err.Error())
		}
	}

	cfg := dashboardConfig{}

	cfg.solr.url = strings.TrimRight(envWithDefault("SOLR_URL", defaultSolrURL), "/")
	cfg.solr.core = strings.Trim(envWithDefault("SOLR_CORE", defaultSolrCore), "/")
	cfg.solr.timeoutMS = integerWithFallback(os.Getenv("SOLR_TIMEOUT"), 1, defaultSolrTimeoutMS)
	cfg.solr.username = os.Getenv("SOLR_USERNAME")
	cfg.solr.password = os.Getenv("SOLR_PASSWORD")
	cfg.solr.hashField = envWithDefault("SOLR_HASH_FIELD", defaultHashField)

	cfg.showUniqueValues = strings.TrimSpace(os.Getenv("SHOW_UNIQUE_VALUES"))
	cfg.listenPort = envWithDefault("DASHBOARD_LISTEN_PORT", defaultListenPort)
	cfg.logLevel = strings.ToLower(envWithDefault("DASHBOARD_LOG_LEVEL", defaultLogLevel))
	cfg.logFormat = strings.ToLower(envWithDefault("DASHBOARD_LOG_FORMAT", defaultLogFormat))
	cfg.assetsDir = envWithDefault("DASHBOARD_ASSETS_DIR", defaultAssetsDir)
	cfg.enablePprof = boolOptionWithFallback(os.Getenv("DASHBOARD_ENABLE_PPROF"), false)

	v.requireValue(cfg.solr.core, "solr core")
	v.requireValue(cfg.solr.hashField, "solr hash field")
	v.requireOneOf(cfg.logFormat, "log format", "json", "console")
	v.requireOneOf(cfg.logLevel, "log level", "debug", "info", "warn", "error")

	if isValidURL(cfg.solr.url) == false {
		v.addProblem("solr url is not an absolute http(s) url: [%s]", cfg.solr.url)
	}

	if v.Invalid() == true {
		return &cfg, errors.New(strings.Join(v.Problems(), "; "))
	}

	return &cfg, nil
}

func (cfg *dashboardConfig) logValues(logger *zap.SugaredLogger) {
	password := "(unset)"
	if cfg.solr.password != "" {
		password = "(set)"
	}

	logger.Infof("[CONFIG] solr.url          = [%s]", cfg.solr.url)
	logger.Infof("[CONFIG] solr.core         = [%s]", cfg.solr.core)
	logger.Infof("[CONFIG] solr.timeoutMS    = [%d]", cfg.solr.timeoutMS)
	logger.Infof("[CONFIG] solr.username     = [%s]", cfg.solr.username)
	logger.Infof("[CONFIG] solr.password     = %s", password)
	logger.Infof("[CONFIG] solr.hashField    = [%s]", cfg.solr.hashField)
	logger.Infof("[CONFIG] showUniqueValues  = [%s]", cfg.showUniqueValues)
	logger.Infof("[CONFIG] listenPort        = [%s]", cfg.listenPort)
	logger.Infof("[CONFIG] logLevel          = [%s]", cfg.logLevel)
	logger.Infof("[CONFIG] logFormat         = [%s]", cfg.logFormat)
	logger.Infof("[CONFIG] assetsDir         = [%s]", cfg.assetsDir)
	logger.Infof("[CONFIG] enablePprof       = [%v]", cfg.enablePprof)
}
