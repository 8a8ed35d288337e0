package handler

import (
	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler обработчики проектов
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Create создаёт проект
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, project)
}

// List возвращает проекты, доступные пользователю
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context(), GetPrincipal(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": projects})
}

// Get возвращает проект
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, project)
}

// Update обновляет проект
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, project)
}

// Delete удаляет проект со всеми связанными данными
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddMember добавляет исполнителя в команду
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Некорректный запрос: "+err.Error())
		return
	}

	if err := h.svc.AddMember(c.Request.Context(), GetPrincipal(c), c.Param("id"), req.UserID); err != nil {
		HandleError(c, err)
		return
	}
	Created(c, nil)
}

// RemoveMember убирает исполнителя из команды
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	if err := h.svc.RemoveMember(c.Request.Context(), GetPrincipal(c), c.Param("id"), c.Param("userId")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// ListMembers возвращает команду проекта
// GET /api/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(c.Request.Context(), GetPrincipal(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"items": members})
}
