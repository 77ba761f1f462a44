package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type clientOpts struct {
	verbose bool // controls whether full Solr request urls are logged
}

type clientContext struct {
	reqID  string             // internally generated
	start  time.Time          // internally set
	opts   clientOpts         // options set by client
	ctx    context.Context    // bounds outbound calls made for this client
	ginCtx *gin.Context       // gin context; nil for internal requests
	logger *zap.SugaredLogger // request-scoped logger
}

func (c *clientContext) init(p *poolContext, ctx *gin.Context) {
	c.ginCtx = ctx

	c.start = time.Now()
	c.reqID = fmt.Sprintf("%08x", rand.Uint32())
	c.logger = p.logger.With("req", c.reqID)
	c.ctx = context.Background()

	if ctx == nil {
		return
	}

	c.ctx = ctx.Request.Context()
	c.opts.verbose = boolOptionWithFallback(ctx.Query("verbose"), false)
}

func (c *clientContext) logRequest() {
	if c.ginCtx == nil {
		return
	}

	query := ""
	if c.ginCtx.Request.URL.RawQuery != "" {
		query = fmt.Sprintf("?%s", c.ginCtx.Request.URL.RawQuery)
	}

	c.log("[REQUEST] %s %s%s", c.ginCtx.Request.Method, c.ginCtx.Request.URL.Path, query)
}

func (c *clientContext) logResponse(resp searchResponse) {
	elapsedMS := time.Since(c.start).Milliseconds()

	switch {
	case resp.err == nil:
		c.log("[RESPONSE] status: %d (%d ms)", resp.status, elapsedMS)

	case resp.status >= http.StatusInternalServerError:
		c.err("[RESPONSE] status: %d, error: %s (%d ms)", resp.status, resp.err.Error(), elapsedMS)

	default:
		c.logger.Warnf("[RESPONSE] status: %d, error: %s (%d ms)", resp.status, resp.err.Error(), elapsedMS)
	}
}

func (c *clientContext) log(format string, args ...interface{}) {
	c.logger.Infof(format, args...)
}

func (c *clientContext) err(format string, args ...interface{}) {
	c.logger.Errorf(format, args...)
}
