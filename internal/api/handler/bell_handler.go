package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"college-schedule/backend/internal/service"
	pkgerrors "college-schedule/backend/pkg/errors"
	"college-schedule/backend/pkg/response"
)

// BellHandler таблицы звонков
type BellHandler struct {
	bellSvc service.BellService
}

// NewBellHandler создаёт BellHandler
func NewBellHandler(bellSvc service.BellService) *BellHandler {
	return &BellHandler{bellSvc: bellSvc}
}

// Current сохранённые таблицы звонков
// GET /api/v1/bell
func (h *BellHandler) Current(c *gin.Context) {
	resp, err := h.bellSvc.Current(c.Request.Context())
	if err != nil {
		handleBellError(c, err)
		return
	}
	response.OK(c, resp)
}

// UploadMain полная таблица звонков
// POST /api/v1/bell/upload, multipart: file
func (h *BellHandler) UploadMain(c *gin.Context) {
	data, _, err := readFormFile(c, "file", maxSideFileBytes)
	if err != nil {
		handleFormError(c, "file", err)
		return
	}
	result, err := h.bellSvc.UploadMain(c.Request.Context(), data)
	if err != nil {
		handleBellError(c, err)
		return
	}
	response.OK(c, result)
}

// UploadOverride таблица звонков для отдельных дней
// POST /api/v1/bell/upload/special, multipart: file
func (h *BellHandler) UploadOverride(c *gin.Context) {
	data, _, err := readFormFile(c, "file", maxSideFileBytes)
	if err != nil {
		handleFormError(c, "file", err)
		return
	}
	result, err := h.bellSvc.UploadOverride(c.Request.Context(), data)
	if err != nil {
		handleBellError(c, err)
		return
	}
	response.OK(c, result)
}

func handleBellError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBellTableNotFound):
		response.NotFound(c, 12101, "таблица звонков не загружена")
	case errors.Is(err, service.ErrIngestInProgress):
		response.Conflict(c, 12102, "загрузка расписания уже выполняется")
	case errors.Is(err, pkgerrors.ErrMalformedInput):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12103, "некорректный файл звонков", err.Error())
	default:
		handleKind(c, err)
	}
}
