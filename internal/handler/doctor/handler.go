package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-dashboard/internal/handler"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
	"github.com/jwalitptl/clinic-dashboard/internal/service/doctor"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
)

type Handler struct {
	svc *doctor.Service
}

func NewHandler(svc *doctor.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.CreateDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)

		doctors.POST("/:id/availability", h.AddAvailability)
		doctors.DELETE("/:id/availability/:day", h.RemoveDay)

		doctors.GET("/:id/dates", h.BookingDates)
		doctors.GET("/:id/slots", h.Slots)
	}
}

// ListDoctors serves the roster. Query: search, sort (name, specialty, experience).
func (h *Handler) ListDoctors(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	doctors, err := h.svc.List(c.Request.Context(), sess, c.Query("search"), c.Query("sort"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var req model.Doctor
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

func (h *Handler) GetDoctor(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	d, err := h.svc.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var req model.Doctor
	if !handler.Bind(c, &req) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), sess, c.Param("id"), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.MessageResponse{Message: "doctor deleted"})
}

func (h *Handler) AddAvailability(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	var sel schedule.TimeSlotSelection
	if !handler.Bind(c, &sel) {
		return
	}
	d, err := h.svc.AddAvailability(c.Request.Context(), sess, c.Param("id"), sel)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) RemoveDay(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	d, err := h.svc.RemoveDay(c.Request.Context(), sess, c.Param("id"), c.Param("day"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) BookingDates(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	dates, err := h.svc.BookingDates(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dates)
}

// Slots lists the time slots on ?date=DD/MM/YYYY.
func (h *Handler) Slots(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	slots, err := h.svc.Slots(c.Request.Context(), sess, c.Param("id"), c.Query("date"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}
