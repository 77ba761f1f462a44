package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// serve runs fn inside a fresh client/search context and writes its result
func (p *poolContext) serve(c *gin.Context, fn func(s *searchContext) searchResponse) {
	cl := clientContext{}
	cl.init(p, c)

	s := searchContext{}
	s.init(p, &cl)

	cl.logRequest()
	resp := fn(&s)
	cl.logResponse(resp)

	if resp.raw != nil {
		c.Data(resp.status, "application/json; charset=utf-8", resp.raw)
		return
	}

	c.JSON(resp.status, resp.data)
}

func (p *poolContext) configHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleConfigRequest()
	})
}

func (p *poolContext) connectionHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleConnectionRequest(c.Query("action"))
	})
}

func (p *poolContext) queryHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleQueryRequest(c)
	})
}

func (p *poolContext) deleteHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleDeleteRequest(c)
	})
}

func (p *poolContext) valuesHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleValuesRequest(c)
	})
}

func (p *poolContext) ignoreHandler(c *gin.Context) {
}

func (p *poolContext) versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, p.version)
}

func (p *poolContext) healthCheckHandler(c *gin.Context) {
	p.serve(c, func(s *searchContext) searchResponse {
		return s.handleHealthCheckRequest()
	})
}
