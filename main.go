package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type server struct {
	cfg     *Config
	content *Content
	pages   *pageBuilder
	logger  *zap.Logger
	metrics *Metrics
	hasher  ipHasher

	store   *VisitorStore
	tracker *VisitorTracker
	admin   *AdminHandler
	contact *ContactHandler

	engine *gin.Engine
}

func newServer(cfg *Config, content *Content, logger *zap.Logger) (*server, error) {
	sender, err := newSender(cfg)
	if err != nil {
		return nil, err
	}
	hasher, err := newIPHasher()
	if err != nil {
		return nil, err
	}
	s := &server{
		cfg:     cfg,
		content: content,
		pages:   &pageBuilder{content: content, cfg: cfg},
		logger:  logger,
		metrics: NewMetrics(),
		hasher:  hasher,
	}
	s.contact, err = NewContactHandler(sender, cfg, s.metrics, logger)
	if err != nil {
		return nil, err
	}

	if cfg.TrackVisitors {
		s.store, err = OpenVisitorStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		s.hasher = s.store.hasher
		s.tracker = NewVisitorTracker(s.store, logger)
		s.admin, err = NewAdminHandler(s.store, cfg, logger)
		if err != nil {
			s.store.Close()
			return nil, err
		}
	}

	s.engine = s.routes()
	return s, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"icon":     icon,
		"external": isExternal,
		"lower":    strings.ToLower,
		"safeURL":  safeURL,
		"dict":     dict,
	}
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// safeURL lets validated content links through html/template, which would
// otherwise rewrite tel: links.
func safeURL(href string) template.URL {
	if checkHref(href) != nil {
		return template.URL("#")
	}
	return template.URL(href)
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLogMiddleware(s.logger, s.hasher.Hash), s.metrics.Middleware())
	if s.tracker != nil {
		r.Use(visitorTrackingMiddleware(s.tracker))
	}
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob("templates/*")

	r.Static("/static", "./static")

	r.GET("/", s.home)
	r.GET("/experience", s.experience)
	r.GET("/nav", s.nav)
	r.GET("/hero/typing", s.heroTyping)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", s.metrics.Handler())
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"tracking":  s.tracker != nil,
			"retention": int(s.cfg.VisitorRetention.Hours() / 24),
		})
	})

	s.contact.RegisterRoutes(r)
	if s.admin != nil {
		s.admin.RegisterRoutes(r)
	}
	return r
}

// reducedMotion reports whether the client asked for no animation.
func reducedMotion(c *gin.Context) bool {
	return c.GetHeader("Sec-CH-Prefers-Reduced-Motion") == "reduce" || c.Query("motion") == "off"
}

func (s *server) home(c *gin.Context) {
	c.Header("Accept-CH", "Sec-CH-Prefers-Reduced-Motion")
	c.HTML(http.StatusOK, "index.html", s.pages.build(reducedMotion(c), time.Now()))
}

// experience renders the timeline with the card in ?open expanded; -1 collapses all.
func (s *server) experience(c *gin.Context) {
	open, err := strconv.Atoi(c.DefaultQuery("open", "0"))
	if err != nil || open < noneExpanded || open >= len(s.content.Experience) {
		c.String(http.StatusBadRequest, "invalid experience index")
		return
	}
	c.HTML(http.StatusOK, "experience.html", pageData{
		Experience: s.pages.experienceCards(open, true),
	})
}

// nav renders the navigation list for the section offsets reported by the page.
func (s *server) nav(c *gin.Context) {
	tops, err := parseSectionTops(c.Query("tops"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	active := activeSection(s.pages.sectionOrder(), tops)
	c.HTML(http.StatusOK, "nav.html", pageData{Nav: s.pages.nav(active)})
}

// heroTyping streams the typewriter frames of the heading as server-sent
// events. The stream stops when the client goes away.
func (s *server) heroTyping(c *gin.Context) {
	tw := Typewriter{Text: s.content.Profile.Name, Interval: s.cfg.TypingInterval}
	c.Header("Cache-Control", "no-cache")
	err := tw.Play(c.Request.Context(), func(frame string) {
		c.SSEvent("frame", frame)
		c.Writer.Flush()
	})
	if err != nil {
		return
	}
	c.SSEvent("done", tw.Text)
	c.Writer.Flush()
}

func (s *server) Close() error {
	if s.tracker != nil {
		s.tracker.Wait()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	gin.SetMode(cfg.Mode)

	logger, err := newLogger(cfg.Mode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	content, err := LoadContent()
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	srv, err := newServer(cfg, content, logger)
	if err != nil {
		logger.Fatal("starting server", zap.Error(err))
	}
	defer srv.Close()

	if err := run(srv); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func run(s *server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if s.tracker != nil {
		g.Go(func() error {
			return s.tracker.RunCleanup(ctx, s.cfg.VisitorRetention, s.cfg.CleanupInterval)
		})
	}
	return g.Wait()
}
