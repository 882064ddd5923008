package reports

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/shared/metrics"
	"creditreport-backend/internal/shared/server/middleware"
	"creditreport-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/credit-reports/process", h.Process)
	rg.GET("/credit-reports/:id", h.getAnalysis)
	rg.GET("/credit-reports", h.listAnalyses)
}

type processRequest struct {
	PDFURL string `json:"pdf_url"`
	UserID string `json:"user_id"`
}

// Process handles one credit report processing request. Also mounted at the
// top level as POST /process-credit-report for function-style deployments.
func (h *Handler) Process(c *gin.Context) {
	var body processRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, MsgMissingFields)
		return
	}
	if strings.TrimSpace(body.PDFURL) == "" || strings.TrimSpace(body.UserID) == "" {
		respond.Error(c, http.StatusBadRequest, MsgMissingFields)
		return
	}
	c.Set("userId", body.UserID)

	metrics.IncProcessingStarted()
	start := time.Now()
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	rec, summary, err := h.Svc.Process(ctx, body.PDFURL, body.UserID)
	metrics.ObserveProcessingDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		step := failedStep(err)
		metrics.IncProcessingFailed(step)
		c.Set("pipelineStep", step)
		if KindOf(err) == KindValidation {
			respond.Error(c, http.StatusBadRequest, PublicMessage(err))
			return
		}
		respond.Error(c, http.StatusInternalServerError, PublicMessage(err))
		return
	}
	metrics.IncProcessingCompleted()

	c.Set("analysisId", rec.ID)
	respond.Success(c, "Credit report processed successfully", rec, summary)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "analysis id is required")
		return
	}

	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "analysis not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "failed to fetch analysis")
		return
	}
	c.Set("analysisId", rec.ID)
	c.Set("userId", rec.UserID)
	respond.JSON(c, http.StatusOK, rec)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "user_id is required")
		return
	}
	c.Set("userId", userID)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	recs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	if recs == nil {
		recs = []ReportAnalysis{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"analyses": recs})
}

func failedStep(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Step
	}
	return ""
}
