package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-dashboard/internal/handler"
	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/service/appointment"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/dashboard/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.BookAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}

// ListAppointments serves the appointment table.
// Query: search, view (today|date|all), date (YYYY-MM-DD), doctor, sort, dir, page, refresh.
func (h *Handler) ListAppointments(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	q, refresh, err := parseQuery(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	res, err := h.svc.List(c.Request.Context(), sess, q, refresh)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, res)
}

func parseQuery(c *gin.Context) (listing.Query, bool, error) {
	q := listing.DefaultQuery()

	view, err := listing.ParseViewMode(c.Query("view"))
	if err != nil {
		return q, false, apperrors.BadRequest(err.Error(), err)
	}
	dir, err := listing.ParseDirection(c.Query("dir"))
	if err != nil {
		return q, false, apperrors.BadRequest(err.Error(), err)
	}
	page, err := handler.QueryInt(c, "page", 1)
	if err != nil {
		return q, false, err
	}
	refresh, err := handler.QueryBool(c, "refresh")
	if err != nil {
		return q, false, err
	}

	q.Search = c.Query("search")
	q.View = view
	q.Date = c.Query("date")
	if d := c.Query("doctor"); d != "" {
		q.DoctorID = d
	}
	if s := c.Query("sort"); s != "" {
		q.Sort.Key = s
	}
	q.Sort.Direction = dir
	q.Page = page

	if q.View == listing.ViewDate && q.Date == "" {
		return q, false, apperrors.BadRequest("date is required when view is date", nil)
	}
	return q, refresh, nil
}

func (h *Handler) BookAppointment(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var req model.CreateAppointmentRequest
	if !handler.Bind(c, &req) {
		return
	}

	created, err := h.svc.Book(c.Request.Context(), sess, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var req model.UpdateStatusRequest
	if !handler.Bind(c, &req) {
		return
	}

	id := c.Param("id")
	if err := h.svc.UpdateStatus(c.Request.Context(), sess, id, req.Status); err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment.StatusChanged{
		AppointmentID: id,
		Status:        model.AppointmentStatus(req.Status),
		UserID:        sess.UserID,
	})
}
