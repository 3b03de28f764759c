package analytics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-dashboard/internal/handler"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/report"
	"github.com/jwalitptl/clinic-dashboard/internal/service/analytics"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

type Handler struct {
	svc     *analytics.Service
	clinic  string
	metrics *metrics.Metrics
}

func NewHandler(svc *analytics.Service, clinic string, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, clinic: clinic, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/analytics")
	{
		group.GET("/daily", h.Daily)
		group.GET("/report.pdf", h.ReportPDF)
	}
}

// Daily serves per-doctor counts for ?date=YYYY-MM-DD, today by default.
func (h *Handler) Daily(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	daily, err := h.svc.Daily(c.Request.Context(), sess, c.Query("date"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, daily)
}

func (h *Handler) ReportPDF(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	start := time.Now()
	pdf, name, err := h.render(c, sess)
	h.observe(start, err)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) render(c *gin.Context, sess *model.Session) ([]byte, string, error) {
	r, err := h.svc.Report(c.Request.Context(), sess, c.Query("date"))
	if err != nil {
		return nil, "", err
	}
	pdf, err := report.RenderPDF(r, h.clinic)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return pdf, report.FileName(r), nil
}

func (h *Handler) observe(start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.metrics.ReportsGenerated.WithLabelValues(result).Inc()
	h.metrics.ReportLatency.Observe(time.Since(start).Seconds())
}
