package handler

import (
	"errors"
	"strconv"

	"github.com/GRAF231/brigada/internal/access"
	"github.com/GRAF231/brigada/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers набор обработчиков
type Handlers struct {
	Auth          *AuthHandler
	User          *UserHandler
	Project       *ProjectHandler
	Estimate      *EstimateHandler
	Schedule      *ScheduleHandler
	StatusMessage *StatusMessageHandler
	PriceList     *PriceListHandler
}

// NewHandlers создаёт набор обработчиков
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(svc.Auth),
		User:          NewUserHandler(svc.User),
		Project:       NewProjectHandler(svc.Project),
		Estimate:      NewEstimateHandler(svc.Estimate),
		Schedule:      NewScheduleHandler(svc.Schedule),
		StatusMessage: NewStatusMessageHandler(svc.StatusMessage),
		PriceList:     NewPriceListHandler(svc.PriceList),
	}
}

// Response общий конверт ответа
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success успешный ответ
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created ответ на успешное создание
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error ответ с ошибкой
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest ошибка в параметрах запроса
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized не авторизован
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden доступ запрещён
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound ресурс не найден
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict конфликт изменений
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError внутренняя ошибка
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError переводит ошибку сервисного слоя в HTTP-ответ
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPrincipal возвращает пользователя запроса для проверок доступа
func GetPrincipal(c *gin.Context) access.Principal {
	return access.Principal{
		ID:   GetUserID(c),
		Role: c.GetString("user_role"),
	}
}

// GetPagination возвращает параметры пагинации запроса
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0

	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
