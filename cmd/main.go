package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

/**
 * Main entry point for the web service
 */
func main() {
	cfg, cfgErr := loadConfig(".env")

	logger, err := newLogger(cfg.logFormat, cfg.logLevel)
	if err != nil {
		log.Fatalf("unable to create logger: %s", err.Error())
	}

	defer logger.Sync()

	logger.Infof("===> virgo4-solr-dashboard-ws starting up <===")

	if cfgErr != nil {
		logger.Fatalf("exiting due to invalid configuration: %s", cfgErr.Error())
	}

	cfg.logValues(logger)

	pool := initializePool(cfg, logger)

	gin.SetMode(gin.ReleaseMode)

	p := ginprometheus.NewPrometheus("gin")

	router := pool.newRouter(p.HandlerFunc())

	// roundabout setup of /metrics endpoint to avoid double-gzip of response
	h := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))

	router.GET(p.MetricsPath, func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	})

	portStr := fmt.Sprintf(":%s", cfg.listenPort)
	logger.Infof("Start service on %s", portStr)

	logger.Fatal(router.Run(portStr))
}

// newRouter wires every service route.  middleware is installed ahead of
// the routes, so that it applies to all of them.
func (p *poolContext) newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	router.Use(cors.New(corsCfg))

	router.Use(middleware...)

	if p.config.enablePprof == true {
		pprof.Register(router)
	}

	router.GET("/favicon.ico", p.ignoreHandler)

	router.GET("/version", p.versionHandler)
	router.GET("/healthcheck", p.healthCheckHandler)

	if api := router.Group("/api/solr"); api != nil {
		api.GET("/config", p.configHandler)
		api.GET("/connection", p.connectionHandler)
		api.GET("/query", p.queryHandler)
		api.POST("/query", p.queryHandler)
		api.POST("/delete", p.deleteHandler)
		api.GET("/values", p.valuesHandler)
	}

	// dashboard front end
	router.Use(static.Serve("/", static.LocalFile(p.config.assetsDir, false)))

	return router
}
