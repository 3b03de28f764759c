package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-dashboard/internal/handler"
	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/service/patient"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
)

type Handler struct {
	svc *patient.Service
}

func NewHandler(svc *patient.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
	}
}

// ListPatients query: search, sort, dir (asc|desc), page.
func (h *Handler) ListPatients(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	page, err := handler.QueryInt(c, "page", 1)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	res, err := h.svc.List(c.Request.Context(), sess, listing.PatientQuery{
		Search:    c.Query("search"),
		SortField: c.Query("sort"),
		Direction: listing.Direction(c.Query("dir")),
		Page:      page,
	})
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, res)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var req model.CreatePatientRequest
	if !handler.Bind(c, &req) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), sess, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}
