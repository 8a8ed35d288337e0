package handler

import (
	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// StatusMessageHandler обработчики ленты статусов
type StatusMessageHandler struct {
	svc *service.StatusMessageService
}

func NewStatusMessageHandler(svc *service.StatusMessageService) *StatusMessageHandler {
	return &StatusMessageHandler{svc: svc}
}

// Create публикует сообщение с вложениями
// POST /api/projects/:id/status (multipart/form-data: message, files[])
func (h *StatusMessageHandler) Create(c *gin.Context) {
	message := c.PostForm("message")

	var files []service.UploadFile
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				BadRequest(c, "Не удалось прочитать вложение: "+err.Error())
				return
			}
			defer f.Close()
			files = append(files, service.UploadFile{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			})
		}
	}

	msg, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), c.Param("id"), message, files)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, msg)
}

// List возвращает ленту проекта
// GET /api/projects/:id/status?limit=20&offset=0
func (h *StatusMessageHandler) List(c *gin.Context) {
	limit, offset := GetPagination(c)
	feed, err := h.svc.List(c.Request.Context(), GetPrincipal(c), c.Param("id"), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, feed)
}

// Delete удаляет сообщение
// DELETE /api/status-messages/:id
func (h *StatusMessageHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// AttachmentURL выдаёт временную ссылку на вложение
// GET /api/status-messages/:id/attachments/:attachmentId
func (h *StatusMessageHandler) AttachmentURL(c *gin.Context) {
	url, err := h.svc.AttachmentURL(c.Request.Context(), GetPrincipal(c), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"url": url})
}
