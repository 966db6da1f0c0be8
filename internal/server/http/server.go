// Package httpserver exposes the vault and security-analysis services over
// a JSON HTTP API.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	u "github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/auth"
	"github.com/vrushal09/passnext/internal/dashboard"
	"github.com/vrushal09/passnext/internal/errs"
	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/service"
	"github.com/vrushal09/passnext/internal/strength"
)

// BreachAPI is what the analyze endpoints need from the breach client.
type BreachAPI interface {
	CheckPassword(ctx context.Context, password string) (model.BreachResult, error)
	CheckEmail(ctx context.Context, email string) (model.EmailBreachResult, error)
}

// DashboardGenerator builds the full security dashboard for an owner.
type DashboardGenerator interface {
	Generate(ctx context.Context, ownerID u.UUID, records []model.PasswordRecord) (model.DashboardData, error)
}

// PrefsStore reads and writes notification preferences.
type PrefsStore interface {
	Prefs(ctx context.Context, ownerID u.UUID) (model.NotificationPrefs, error)
	SetPrefs(ctx context.Context, ownerID u.UUID, prefs model.NotificationPrefs) error
}

// BackupService exports and restores vault snapshots. Optional.
type BackupService interface {
	Export(ctx context.Context, ownerID u.UUID) (string, error)
	Restore(ctx context.Context, ownerID u.UUID, key string) (int, error)
}

// Deps collects everything the server routes to.
type Deps struct {
	Vault     service.VaultService
	Breach    BreachAPI
	Dashboard DashboardGenerator
	Prefs     PrefsStore
	Backup    BackupService // nil disables backup routes
	Tokens    *auth.TokenManager
	Log       *zap.Logger
}

// Server is the HTTP facade.
type Server struct {
	deps   Deps
	router *gin.Engine
}

var _ DashboardGenerator = (*dashboard.Aggregator)(nil)

// New builds the router with logging, recovery, and bearer auth on /api.
func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(Logging(deps.Log), Recover(deps.Log))

	s := &Server{deps: deps, router: router}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", Auth(deps.Tokens))
	{
		api.POST("/passwords", s.addPassword)
		api.GET("/passwords", s.listPasswords)
		api.GET("/passwords/:id", s.getPassword)
		api.PUT("/passwords/:id", s.updatePassword)
		api.DELETE("/passwords/:id", s.deletePassword)

		api.GET("/dashboard", s.getDashboard)

		api.POST("/analyze/strength", s.analyzeStrength)
		api.POST("/analyze/breach", s.analyzeBreach)

		api.GET("/settings/notifications", s.getPrefs)
		api.PUT("/settings/notifications", s.setPrefs)

		if deps.Backup != nil {
			api.POST("/backup/export", s.exportBackup)
			api.POST("/backup/restore", s.restoreBackup)
		}
	}

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func ownerID(c *gin.Context) u.UUID {
	v, _ := c.Get(ownerIDKey)
	id, _ := v.(u.UUID)
	return id
}

// writeErr maps service errors to HTTP statuses.
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, errs.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limited"})
	case errors.Is(err, errs.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream unavailable"})
	case strings.HasPrefix(err.Error(), "validation:"):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

// --- vault handlers ---

func (s *Server) addPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	rec, err := s.deps.Vault.Add(c.Request.Context(), ownerID(c), fromPasswordRequest(req))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPasswordResponse(rec))
}

func (s *Server) listPasswords(c *gin.Context) {
	recs, err := s.deps.Vault.List(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	out := make([]passwordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toPasswordResponse(rec))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getPassword(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	rec, err := s.deps.Vault.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toPasswordResponse(*rec))
}

func (s *Server) updatePassword(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	rec := fromPasswordRequest(req)
	rec.ID = id
	updated, err := s.deps.Vault.Update(c.Request.Context(), ownerID(c), rec)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toPasswordResponse(updated))
}

func (s *Server) deletePassword(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.deps.Vault.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- analysis handlers ---

func (s *Server) analyzeStrength(c *gin.Context) {
	var req strengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	res := strength.Analyze(req.Password, req.Context)
	ind := strength.Indicator(req.Password, req.Context)
	min := strength.MeetsMinimum(req.Password)
	c.JSON(http.StatusOK, toStrengthResponse(res, ind, min))
}

func (s *Server) analyzeBreach(c *gin.Context) {
	var req breachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	switch {
	case req.Password != "":
		res, err := s.deps.Breach.CheckPassword(c.Request.Context(), req.Password)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toPasswordBreachResponse(res))
	case req.Email != "":
		res, err := s.deps.Breach.CheckEmail(c.Request.Context(), req.Email)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmailBreachResponse(res))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "password or email required"})
	}
}

func (s *Server) getDashboard(c *gin.Context) {
	owner := ownerID(c)
	recs, err := s.deps.Vault.List(c.Request.Context(), owner)
	if err != nil {
		writeErr(c, err)
		return
	}
	data, err := s.deps.Dashboard.Generate(c.Request.Context(), owner, recs)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toDashboardResponse(data))
}

// --- settings handlers ---

func (s *Server) getPrefs(c *gin.Context) {
	prefs, err := s.deps.Prefs.Prefs(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toPrefsDTO(prefs))
}

func (s *Server) setPrefs(c *gin.Context) {
	var req prefsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	if err := s.deps.Prefs.SetPrefs(c.Request.Context(), ownerID(c), fromPrefsDTO(req)); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// --- backup handlers ---

func (s *Server) exportBackup(c *gin.Context) {
	key, err := s.deps.Backup.Export(c.Request.Context(), ownerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

func (s *Server) restoreBackup(c *gin.Context) {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key required"})
		return
	}
	restored, err := s.deps.Backup.Restore(c.Request.Context(), ownerID(c), req.Key)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}
