package server

import (
	"errors"
	"net/http"

	"github.com/agenthands/biokag/internal/core"
	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	KAG *core.KAG
}

func NewServer(k *core.KAG) *Server {
	return &Server{KAG: k}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.POST("/documents", s.AddDocument)
	r.POST("/answer", s.Answer)
	r.GET("/stats", s.Stats)
	r.GET("/entities", s.FindEntities)
	r.GET("/entities/:id/neighbors", s.Neighbors)
	r.GET("/entities/:id/sources", s.Sources)
	r.GET("/communities", s.Communities)
	r.POST("/snapshot", s.Snapshot)
	r.POST("/export", s.Export)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}

// respondError maps core errors onto HTTP status codes.
func respondError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, kg.ErrInvalidRecord):
		status = http.StatusBadRequest
	case errors.Is(err, kg.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrExportDisabled):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logger.Error(msg, "error", err)
	}
	c.JSON(status, gin.H{"error": msg, "detail": err.Error()})
}

func (s *Server) AddDocument(c *gin.Context) {
	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.KAG.IngestDocument(doc)
	if err != nil {
		respondError(c, "Failed to ingest document", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type AnswerRequest struct {
	Question string `json:"question" binding:"required"`
	MaxDepth *int   `json:"max_depth"`
}

func (s *Server) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res, err := s.KAG.Answer(c.Request.Context(), req.Question, req.MaxDepth)
	if err != nil {
		respondError(c, "Failed to answer question", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.KAG.Statistics())
}

func (s *Server) FindEntities(c *gin.Context) {
	entities := s.KAG.FindEntities(c.Query("q"), c.Query("type"))
	c.JSON(http.StatusOK, gin.H{"entities": entities})
}

func (s *Server) Neighbors(c *gin.Context) {
	views, err := s.KAG.Neighbors(c.Param("id"), c.Query("predicate"))
	if err != nil {
		respondError(c, "Failed to list neighbors", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"neighbors": views})
}

func (s *Server) Sources(c *gin.Context) {
	srcs, err := s.KAG.EntitySources(c.Param("id"))
	if err != nil {
		respondError(c, "Failed to list sources", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": srcs})
}

func (s *Server) Communities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"communities": s.KAG.Communities()})
}

func (s *Server) Snapshot(c *gin.Context) {
	if err := s.KAG.Snapshot(c.Request.Context()); err != nil {
		respondError(c, "Failed to save snapshot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "location": s.KAG.Location})
}

func (s *Server) Export(c *gin.Context) {
	report, err := s.KAG.Export(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to export graph", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
