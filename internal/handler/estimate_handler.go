package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// EstimateHandler обработчики смет
type EstimateHandler struct {
	svc *service.EstimateService
}

func NewEstimateHandler(svc *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{svc: svc}
}

// GetOrCreate возвращает смету проекта, создавая её при первом обращении
// GET /api/projects/:id/estimate
func (h *EstimateHandler) GetOrCreate(c *gin.Context) {
	view, err := h.svc.GetOrCreate(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, view)
}

// Get возвращает смету по ID
// GET /api/estimates/:id
func (h *EstimateHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, view)
}

// AddItem добавляет позицию в смету
// POST /api/estimates/:id/items
func (h *EstimateHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, item)
}

// UpdateItem частично обновляет позицию сметы
// PUT /api/estimate-items/:id
func (h *EstimateHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus меняет статус позиции сметы
// PATCH /api/estimate-items/:id/status
func (h *EstimateHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	item, err := h.svc.ChangeStatus(c.Request.Context(), GetPrincipal(c), c.Param("id"), req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

// DeleteItem удаляет позицию вместе с вложенными
// DELETE /api/estimate-items/:id
func (h *EstimateHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// Export выгружает смету в xlsx
// GET /api/estimates/:id/export
func (h *EstimateHandler) Export(c *gin.Context) {
	f, err := h.svc.Export(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("estimate_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
