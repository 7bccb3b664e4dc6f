// Package server steps a rope on a ticker and streams its frames over HTTP,
// websockets and optionally redis pub/sub.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/rope"
	"go.uber.org/zap"
)

const publishTimeout = 250 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Options struct {
	TickRate int
	// Source drives the anchor until a client posts one. Nil holds the
	// simulator's current anchor.
	Source    anchor.Source
	Publisher Publisher
	Logger    *zap.Logger
}

// Server owns one simulator. All access to it goes through mu.
type Server struct {
	mu        sync.Mutex
	sim       *rope.Simulator
	source    anchor.Source
	manual    bool
	anchor    cp.Vector
	tick      int
	time      float64
	step      float64
	lineWidth float64
	latest    Frame

	hub       *Hub
	publisher Publisher
	logger    *zap.Logger
	router    *gin.Engine
}

func New(sim *rope.Simulator, opts Options) (*Server, error) {
	if !sim.Initialized() {
		return nil, rope.ErrNotInitialized
	}
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("server: tick rate %d must be positive", opts.TickRate)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		sim:       sim,
		source:    opts.Source,
		anchor:    sim.Anchor(),
		step:      1 / float64(opts.TickRate),
		lineWidth: sim.Config().LineWidth,
		hub:       NewHub(logger),
		publisher: opts.Publisher,
		logger:    logger,
	}
	s.latest = newFrame(0, 0, sim.Positions(), s.lineWidth)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.GET("/health", s.handleHealth)
	r.GET("/rope", s.handleRope)
	r.POST("/anchor", s.handleAnchor)
	r.POST("/reset", s.handleReset)
	r.GET("/ws", s.handleWS)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Tick advances the rope one fixed step, then fans the frame out.
func (s *Server) Tick(ctx context.Context) Frame {
	s.mu.Lock()
	if s.source != nil && !s.manual {
		pos, err := s.source.Anchor(s.tick, s.time)
		if err != nil {
			s.logger.Warn("anchor source failed", zap.Int("tick", s.tick), zap.Error(err))
		} else {
			s.anchor = pos
		}
	}
	if err := s.sim.Step(s.step, s.anchor); err != nil {
		s.mu.Unlock()
		s.logger.Error("rope step failed", zap.Int("tick", s.tick), zap.Error(err))
		return s.Latest()
	}
	s.tick++
	s.time += s.step
	frame := newFrame(s.tick, s.time, s.sim.Positions(), s.lineWidth)
	s.latest = frame
	s.mu.Unlock()

	s.fanOut(ctx, frame)
	return frame
}

func (s *Server) fanOut(ctx context.Context, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("encode frame", zap.Error(err))
		return
	}
	s.hub.Broadcast(data)

	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, data); err != nil {
		s.logger.Warn("publish frame", zap.Int("tick", frame.Tick), zap.Error(err))
	}
}

func (s *Server) Latest() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// SetAnchor pins the anchor to (x, y), overriding any script source.
func (s *Server) SetAnchor(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = true
	s.anchor = cp.Vector{X: x, Y: y}
}

// Reset re-seeds the rope at the current anchor and rewinds the clock.
func (s *Server) Reset() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sim.Reset(s.anchor); err != nil {
		return s.latest, err
	}
	s.tick = 0
	s.time = 0
	s.latest = newFrame(0, 0, s.sim.Positions(), s.lineWidth)
	return s.latest, nil
}

// Run ticks at the configured rate and serves the websocket hub until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	ticker := time.NewTicker(time.Duration(s.step * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// ListenAndServe runs the tick loop and the HTTP server until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	s.logger.Info("serving rope", zap.String("addr", addr), zap.Float64("step", s.step))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return nil
}
