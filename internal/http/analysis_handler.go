package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habit-persona/internal/domain"
	"habit-persona/internal/personality"
	"habit-persona/internal/service"
)

const asOfLayout = "2006-01-02"

// AnalysisRunner es lo que el handler necesita del servicio de analisis.
type AnalysisRunner interface {
	CheckEligibility(ctx context.Context, userID string, asOf time.Time) (domain.AnalysisEligibility, error)
	RunAnalysis(ctx context.Context, userID string, asOf time.Time) (personality.AnalysisResult, error)
	LatestProfile(ctx context.Context, userID string) (domain.PersonalityProfile, error)
	SimilarProfiles(ctx context.Context, userID string, k int) ([]domain.SimilarProfile, error)
	AlgorithmVersion() string
}

// AnalysisHandler expone el motor de personalidad por HTTP. Es el unico lugar que lee el reloj.
type AnalysisHandler struct {
	logger   *zap.Logger
	analysis AnalysisRunner
	now      func() time.Time
}

func NewAnalysisHandler(logger *zap.Logger, analysis AnalysisRunner) *AnalysisHandler {
	return &AnalysisHandler{
		logger:   logger,
		analysis: analysis,
		now:      time.Now,
	}
}

// GetEligibility maneja GET /analysis/eligibility.
func (h *AnalysisHandler) GetEligibility(c *gin.Context) {
	userID, asOf, ok := h.requestScope(c)
	if !ok {
		return
	}

	eligibility, err := h.analysis.CheckEligibility(c.Request.Context(), userID, asOf)
	if err != nil {
		h.respondError(c, "eligibility check failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"eligibility": eligibility,
		"asOf":        asOf.Format(asOfLayout),
	})
}

// RunAnalysis maneja POST /analysis/run.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	userID, asOf, ok := h.requestScope(c)
	if !ok {
		return
	}

	result, err := h.analysis.RunAnalysis(c.Request.Context(), userID, asOf)
	if err != nil {
		h.respondError(c, "analysis run failed", err)
		return
	}
	if !result.Eligible() {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ineligible",
			"eligibility": result.Eligibility,
		})
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []personality.Warning{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "completed",
		"profile":  result.Profile,
		"warnings": warnings,
	})
}

// GetProfile maneja GET /profile y marca perfiles generados con otra version del algoritmo.
func (h *AnalysisHandler) GetProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.analysis.LatestProfile(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "get profile failed", err)
		return
	}
	current := h.analysis.AlgorithmVersion()
	c.JSON(http.StatusOK, gin.H{
		"profile":                 profile,
		"stale":                   profile.IsStale(current),
		"currentAlgorithmVersion": current,
	})
}

// GetSimilarProfiles maneja GET /profile/similar?k=5.
func (h *AnalysisHandler) GetSimilarProfiles(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	k := 5
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = parsed
	}

	similar, err := h.analysis.SimilarProfiles(c.Request.Context(), userID, k)
	if err != nil {
		h.respondError(c, "similar profiles failed", err)
		return
	}
	if similar == nil {
		similar = []domain.SimilarProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": similar})
}

func (h *AnalysisHandler) userID(c *gin.Context) (string, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok || claims.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return "", false
	}
	return claims.UserID, true
}

// requestScope resuelve usuario y fecha de corte; as_of por defecto es hoy en UTC.
func (h *AnalysisHandler) requestScope(c *gin.Context) (string, time.Time, bool) {
	userID, ok := h.userID(c)
	if !ok {
		return "", time.Time{}, false
	}
	asOf := h.now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.ParseInLocation(asOfLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return "", time.Time{}, false
		}
		asOf = parsed
	}
	return userID, asOf, true
}

func (h *AnalysisHandler) respondError(c *gin.Context, msg string, err error) {
	var dataErr *service.DataAccessError
	switch {
	case errors.Is(err, service.ErrAnalysisInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "analysis already in progress"})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.As(err, &dataErr):
		h.logger.Error(msg, zap.String("source", dataErr.Source), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "habit data unavailable"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
