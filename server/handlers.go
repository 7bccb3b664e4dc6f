package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	frame := s.Latest()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"tick":     frame.Tick,
		"segments": len(frame.Points),
	})
}

func (s *Server) handleRope(c *gin.Context) {
	c.JSON(http.StatusOK, s.Latest())
}

func (s *Server) handleAnchor(c *gin.Context) {
	var req AnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.SetAnchor(*req.X, *req.Y)
	c.JSON(http.StatusOK, gin.H{"x": *req.X, "y": *req.Y})
}

func (s *Server) handleReset(c *gin.Context) {
	frame, err := s.Reset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, frame)
}

// handleWS streams frames to the client, starting with the latest one.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("ws upgrade", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(s.Latest()); err == nil {
		cl.send <- data
	}
	if !s.hub.add(cl) {
		conn.Close()
		return
	}
	go cl.writePump(s.logger)
	go cl.readPump(s)
}
