package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cognee "github.com/cognee-oss/cognee-go"
	"github.com/cognee-oss/cognee-go/pkg/driver"
	"github.com/cognee-oss/cognee-go/pkg/llm"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// CognifyRequest is the payload for POST /api/v1/cognify.
type CognifyRequest struct {
	Dataset  string   `json:"dataset" binding:"required"`
	Texts    []string `json:"texts" binding:"required"`
	SourceID string   `json:"source_id"`
}

// CognifyResponse reports what one request persisted.
type CognifyResponse struct {
	Chunks int `json:"chunks"`
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
}

// EventRequest is the payload for POST /api/v1/events.
type EventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) cognify(c *gin.Context) {
	var req CognifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.cognee.Cognify(c.Request.Context(), req.Dataset, req.Texts, &cognee.CognifyOptions{
		SourceID: req.SourceID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CognifyResponse{
		Chunks: result.Chunks,
		Nodes:  len(result.Nodes),
		Edges:  len(result.Edges),
	})
}

func (s *Server) cognifyEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.cognee.CognifyEvent(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// statusFor maps pipeline errors to HTTP status codes. Input problems are the
// caller's fault; oracle and extraction failures are upstream outages.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrEmptyDataset),
		errors.Is(err, types.ErrEmptyText),
		errors.Is(err, cognee.ErrNoInput):
		return http.StatusBadRequest
	case errors.Is(err, driver.ErrEdgeOracle),
		errors.Is(err, llm.ErrExtraction):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
