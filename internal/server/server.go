// Package server exposes the last scrape report over HTTP.
//
// The server holds at most one report at a time and swaps it atomically
// when a scrape finishes; queries always see either the previous complete
// report or the new one, never a partial pass. One scrape runs at a time.
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stagefind/stagefind/internal/logger"
	"github.com/stagefind/stagefind/internal/registry"
	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/scrape"
)

// Runner runs scrape passes; satisfied by *scrape.Scraper.
type Runner interface {
	Run(ctx context.Context, companies []registry.Company, opts scrape.Options) (*report.Report, error)
}

// Server serves scrape results and triggers new passes.
type Server struct {
	scraper      Runner
	registryPath string

	mu           sync.Mutex
	last         *report.Report
	lastDuration time.Duration
	// running counts in-flight passes. A forced trigger may overlap an
	// existing pass, so a bool would be cleared by whichever pass finishes
	// first while the other is still in flight.
	running int
}

// New creates a server around a scraper and a registry path re-read on
// every triggered pass.
func New(s Runner, registryPath string) *Server {
	return &Server{
		scraper:      s,
		registryPath: registryPath,
	}
}

// Routes registers all endpoints on an echo instance.
func (s *Server) Routes(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.GET("/companies", s.companies)
	e.GET("/productions", s.productions)
	e.GET("/summary", s.summary)
	e.POST("/scrape", s.triggerScrape)
	e.GET("/scrape", s.triggerScrape)
}

// Start runs an initial scrape in the background and serves on addr.
func (s *Server) Start(e *echo.Echo, addr string) error {
	s.Routes(e)
	go func() {
		if err := s.runScrape(context.Background(), scrape.Options{LocalOnly: true}); err != nil {
			logger.Error("startup scrape failed", nil, err)
		}
	}()
	return e.Start(addr)
}

func (s *Server) health(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := map[string]interface{}{
		"status":            "ok",
		"generated_at":      nil,
		"companies":         0,
		"running":           s.running > 0,
		"last_duration_sec": nil,
	}
	if s.last != nil {
		resp["generated_at"] = s.last.GeneratedAt.Format(time.RFC3339)
		resp["companies"] = len(s.last.Companies)
	}
	if s.lastDuration > 0 {
		resp["last_duration_sec"] = s.lastDuration.Seconds()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) companies(c echo.Context) error {
	r := s.snapshot()
	out := []report.Company{}
	if r != nil {
		for _, cr := range r.Companies {
			out = append(out, cr.Company)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) productions(c echo.Context) error {
	r := s.snapshot()
	if r == nil {
		return c.JSON(http.StatusOK, []report.ProductionRecord{})
	}
	events := r.FilterProductions(c.QueryParam("company"), c.QueryParam("play"))
	if events == nil {
		events = []report.ProductionRecord{}
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) summary(c echo.Context) error {
	r := s.snapshot()
	resp := map[string]interface{}{
		"generated_at":       nil,
		"total_companies":    0,
		"total_events":       0,
		"shakespeare_events": 0,
		"ratio":              0.0,
	}
	if r != nil {
		resp["generated_at"] = r.GeneratedAt.Format(time.RFC3339)
		resp["total_companies"] = len(r.Companies)
		resp["total_events"] = r.Summary.TotalEvents
		resp["shakespeare_events"] = r.Summary.ShakespeareEvents
		if r.Summary.TotalEvents > 0 {
			resp["ratio"] = float64(r.Summary.ShakespeareEvents) / float64(r.Summary.TotalEvents)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) triggerScrape(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	localOnly := true
	if v := c.QueryParam("local_only"); v != "" {
		localOnly, _ = strconv.ParseBool(v)
	}

	s.mu.Lock()
	if s.running > 0 && !force {
		s.mu.Unlock()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"started": false, "running": true, "forced": force,
		})
	}
	s.running++
	s.mu.Unlock()

	go func() {
		if err := s.runScrapeLocked(context.Background(), scrape.Options{LocalOnly: localOnly}); err != nil {
			logger.Error("scrape failed", nil, err)
		}
	}()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"started": true, "running": true, "forced": force,
	})
}

// runScrape claims a running slot unless a pass is already in flight, then
// runs one.
func (s *Server) runScrape(ctx context.Context, opts scrape.Options) error {
	s.mu.Lock()
	if s.running > 0 {
		s.mu.Unlock()
		return nil
	}
	s.running++
	s.mu.Unlock()
	return s.runScrapeLocked(ctx, opts)
}

// runScrapeLocked runs a pass with a running slot already claimed and swaps
// in the new report on success.
func (s *Server) runScrapeLocked(ctx context.Context, opts scrape.Options) error {
	defer func() {
		s.mu.Lock()
		s.running--
		s.mu.Unlock()
	}()

	companies, err := registry.Load(s.registryPath)
	if err != nil {
		return err
	}

	started := time.Now()
	r, err := s.scraper.Run(ctx, companies, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.last = r
	s.lastDuration = time.Since(started)
	s.mu.Unlock()
	return nil
}

// snapshot returns the current report pointer. Reports are immutable once
// swapped in, so reads need no further locking.
func (s *Server) snapshot() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
