package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trackreplay/model"
	"trackreplay/sim"
)

// ctrlAdapter bridges server connControl to sim.Control.
type ctrlAdapter struct{ c *connControl }

func (a ctrlAdapter) Speed() float64 {
	if a.c == nil {
		return 1
	}
	v := a.c.speed.Load()
	if v == nil {
		return 1
	}
	return sim.ClampSpeed(v.(float64))
}

func (a ctrlAdapter) Busy() bool {
	if a.c == nil {
		return false
	}
	return a.c.busy.Load()
}

func (a ctrlAdapter) Commands() <-chan sim.Command {
	if a.c == nil {
		return nil
	}
	return a.c.cmds
}

// MarkBusy flags the stream busy as soon as a clip is sent.
func (a ctrlAdapter) MarkBusy(sim.Commentary) {
	if a.c != nil {
		a.c.busy.Store(true)
	}
}

// connControl holds per-stream tunables. The busy flag is raised by the runner
// when a commentary clip is sent and cleared by the client when it ends.
type connControl struct {
	speed atomic.Value
	busy  atomic.Bool
	cmds  chan sim.Command
}

var errControlBacklog = errors.New("control backlog full")

// apply routes a command: speed changes go straight to the tunable read every
// tick, the rest are queued for the runner. Pause and reset silence the output
// channel, so they also clear busy.
func (c *connControl) apply(cmd sim.Command) error {
	if cmd.Kind == sim.CmdSetSpeed {
		c.speed.Store(cmd.Speed)
		return nil
	}
	if cmd.Kind == sim.CmdPause || cmd.Kind == sim.CmdReset {
		c.busy.Store(false)
	}
	select {
	case c.cmds <- cmd:
		return nil
	default:
		return errControlBacklog
	}
}

// Options configures the server instance.
type Options struct {
	DefaultSpeed  float64
	FrameInterval time.Duration
	AutoStart     bool
}

type Server struct {
	Race *model.Race
	Opt  Options

	router         *gin.Engine
	streamControls sync.Map // map[connID]*connControl
}

func New(race *model.Race, opt Options) *Server {
	s := &Server{Race: race, Opt: opt, router: gin.New()}
	s.router.Use(gin.Recovery(), corsMiddleware())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := s.router.Group("/api")
	{
		api.GET("/race", s.handleRace)
		api.GET("/race.json", s.handleRace)
		api.POST("/control", s.handleControl)
		api.GET("/stream", s.handleStream)
		api.GET("/ws", s.handleWebSocket)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Serving on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type racePayload struct {
	Name         string               `json:"name"`
	PreRaceStart float64              `json:"pre_race_start"`
	Laps         int                  `json:"laps"`
	Track        model.TrackConfig    `json:"track"`
	Competitors  []model.Competitor   `json:"competitors"`
	Catalog      []model.CatalogEntry `json:"catalog"`
	Lanes        [][]sim.Point        `json:"lanes"`
}

func (s *Server) handleRace(c *gin.Context) {
	track := sim.NewTrack(s.Race.Track)
	cfg := track.Config()
	lanes := make([][]sim.Point, cfg.Lanes)
	for i := range lanes {
		lanes[i] = track.Outline(i, 96)
	}
	c.JSON(http.StatusOK, racePayload{
		Name:         s.Race.Name,
		PreRaceStart: s.Race.PreRaceStart,
		Laps:         cfg.Laps(),
		Track:        cfg,
		Competitors:  s.Race.Competitors,
		Catalog:      s.Race.Catalog,
		Lanes:        lanes,
	})
}

type controlRequest struct {
	ConnID string  `json:"conn_id"`
	Action string  `json:"action"`
	Speed  float64 `json:"speed"`
	Busy   *bool   `json:"busy"`
}

func (s *Server) handleControl(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
		return
	}
	v, ok := s.streamControls.Load(req.ConnID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
		return
	}
	ctrl := v.(*connControl)
	var cmd *sim.Command
	if req.Action != "" {
		parsed, err := sim.ParseCommand(req.Action, req.Speed)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd = &parsed
	}
	if req.Busy != nil {
		ctrl.busy.Store(*req.Busy)
	}
	if cmd != nil {
		if err := ctrl.apply(*cmd); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("control: conn=%s action=%s speed=%.2fx", req.ConnID, cmd.Kind, ctrlAdapter{c: ctrl}.Speed())
	}
	c.Status(http.StatusNoContent)
}

// openConn registers per-connection controls and starts a runner on a fresh
// engine. Every viewer gets its own replay.
func (s *Server) openConn(c *gin.Context) (string, *connControl, <-chan sim.Event, func()) {
	connID := uuid.New().String()
	ctrl := &connControl{cmds: make(chan sim.Command, 16)}
	speed := s.Opt.DefaultSpeed
	if qs := c.Query("speed"); qs != "" {
		if v, err := strconv.ParseFloat(qs, 64); err == nil && v > 0 {
			speed = v
		}
	}
	ctrl.speed.Store(sim.ClampSpeed(speed))
	autoStart := s.Opt.AutoStart
	if qs := c.Query("autostart"); qs != "" {
		if v, err := strconv.ParseBool(qs); err == nil {
			autoStart = v
		}
	}
	s.streamControls.Store(connID, ctrl)

	eng := sim.NewEngine(s.Race)
	events, stop, wait := sim.StartRunner(eng, sim.RunnerOptions{
		ConnID:        connID,
		FrameInterval: s.Opt.FrameInterval,
		AutoStart:     autoStart,
	}, ctrlAdapter{c: ctrl})
	closeFn := func() {
		stop()
		// drain so the runner never blocks on a full channel while stopping
		for range events {
		}
		wait()
		s.streamControls.Delete(connID)
	}
	return connID, ctrl, events, closeFn
}

func (s *Server) handleStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	connID, _, events, closeFn := s.openConn(c)
	defer closeFn()
	log.Printf("stream: conn=%s opened", connID)
	defer log.Printf("stream: conn=%s closed", connID)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			name, payload := encodeEvent(ev)
			if name == "" {
				continue
			}
			c.SSEvent(name, payload)
			c.Writer.Flush()
		}
	}
}
