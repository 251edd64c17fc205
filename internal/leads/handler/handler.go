package handler

import (
	"net/http"

	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/leads/service"
	"orderhub_backend/internal/leads/transport"
	"orderhub_backend/platform/httpkit"
	"orderhub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	// maxUploadBytes caps lead sheet uploads.
	maxUploadBytes = 10 << 20
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts lead routes. Owner routes manage the lead pool;
// moderators only read their queue and record call outcomes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	owner := rg.Group("", httpkit.RequireRole(httpkit.RoleOwner))
	owner.GET("", h.List)
	owner.POST("", h.ManualEntry)
	owner.POST("/import", h.Import)
	owner.POST("/bulk-assign", h.BulkAssign)
	owner.POST("/deduplicate", h.Deduplicate)
	owner.DELETE("/:id", h.Delete)

	staff := rg.Group("", httpkit.RequireRole(httpkit.RoleOwner, httpkit.RoleModerator))
	staff.PATCH("/:id/status", h.UpdateStatus)

	rg.GET("/queue", httpkit.RequireRole(httpkit.RoleModerator), h.Queue)
}

func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), id.BusinessID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ManualEntry(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ManualEntry(c.Request.Context(), actorFrom(id), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

func (h *Handler) Import(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var opts transport.ImportOptions
	if err := c.ShouldBind(&opts); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(opts); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not open uploaded file", nil)
		return
	}
	defer file.Close()

	sheet, err := service.ReadSheet(fileHeader.Filename, file)
	if httpkit.HandleError(c, err) {
		return
	}

	assign := service.Assignment{AssignedDate: opts.AssignedDate}
	if opts.ModeratorID != "" {
		moderatorID := uuid.MustParse(opts.ModeratorID)
		assign.ModeratorID = &moderatorID
	}

	result, err := h.svc.Import(c.Request.Context(), actorFrom(id), sheet, assign)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

func (h *Handler) BulkAssign(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.BulkAssign(c.Request.Context(), actorFrom(id), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Deduplicate(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	result, err := h.svc.Deduplicate(c.Request.Context(), id.BusinessID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id.BusinessID(), leadID)) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), actorFrom(id), leadID, contacts.LeadStatus(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Queue(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.QueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Queue(c.Request.Context(), actorFrom(id), req.Day)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func actorFrom(id httpkit.Identity) service.Actor {
	return service.Actor{
		UserID:     id.UserID(),
		BusinessID: id.BusinessID(),
		IsOwner:    id.HasRole(httpkit.RoleOwner),
	}
}
