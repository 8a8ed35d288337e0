package handler

import (
	"strconv"

	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// PriceListHandler обработчики прайс-листов
type PriceListHandler struct {
	svc *service.PriceListService
}

func NewPriceListHandler(svc *service.PriceListService) *PriceListHandler {
	return &PriceListHandler{svc: svc}
}

// Create создаёт прайс-лист
// POST /api/price-lists
func (h *PriceListHandler) Create(c *gin.Context) {
	var req service.CreatePriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	list, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, list)
}

// List возвращает прайс-листы
// GET /api/price-lists?type=client
func (h *PriceListHandler) List(c *gin.Context) {
	lists, err := h.svc.List(c.Request.Context(), GetPrincipal(c), c.Query("type"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": lists})
}

// Get возвращает прайс-лист с позициями
// GET /api/price-lists/:id
func (h *PriceListHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, view)
}

// Update переименовывает прайс-лист
// PUT /api/price-lists/:id
func (h *PriceListHandler) Update(c *gin.Context) {
	var req service.UpdatePriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректные данные: "+err.Error())
		return
	}
	list, err := h.svc.Update(c.Request.Context(), GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, list)
}

// Delete удаляет прайс-лист
// DELETE /api/price-lists/:id
func (h *PriceListHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// AddItem добавляет позицию в прайс-лист
// POST /api/price-lists/:id/items
func (h *PriceListHandler) AddItem(c *gin.Context) {
	var req service.PriceItemRequest
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

// UpdateItem обновляет позицию прайс-листа
// PUT /api/price-items/:id
func (h *PriceListHandler) UpdateItem(c *gin.Context) {
	var req service.PriceItemRequest
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

// DeleteItem удаляет позицию прайс-листа
// DELETE /api/price-items/:id
func (h *PriceListHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// SearchItems ищет позиции для подстановки в смету
// GET /api/price-items/search?q=штукатурка&type=client&limit=20
func (h *PriceListHandler) SearchItems(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			limit = v
		}
	}

	items, err := h.svc.SearchItems(c.Request.Context(), GetPrincipal(c), c.Query("type"), c.Query("q"), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
