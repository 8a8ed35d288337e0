package handler

import (
	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler обработчики графиков работ
type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// GetOrCreate возвращает график проекта, создавая его при первом обращении
// GET /api/projects/:id/schedule
func (h *ScheduleHandler) GetOrCreate(c *gin.Context) {
	view, err := h.svc.GetOrCreate(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, view)
}

// AddItem добавляет этап в график
// POST /api/schedules/:id/items
func (h *ScheduleHandler) AddItem(c *gin.Context) {
	var req service.AddScheduleItemRequest
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

// UpdateItem обновляет этап графика
// PUT /api/schedule-items/:id
func (h *ScheduleHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateScheduleItemRequest
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

// ChangeStatus меняет статус этапа графика
// PATCH /api/schedule-items/:id/status
func (h *ScheduleHandler) ChangeStatus(c *gin.Context) {
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

// DeleteItem удаляет этап графика
// DELETE /api/schedule-items/:id
func (h *ScheduleHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
