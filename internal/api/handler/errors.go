package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "college-schedule/backend/pkg/errors"
	"college-schedule/backend/pkg/response"
)

// ── Общие коды ошибок ──

const (
	codeInvalidParams  = 10001
	codeBodyTooLarge   = 10005
	codeMalformedInput = 10400
	codeNotFound       = 10404
	codeConflict       = 10409
)

// maxSideFileBytes файлы смен и звонков; размер документа ограничивает BodyLimit
const maxSideFileBytes = 2 << 20

// handleKind ответ по виду ошибки, когда модульный код не подобран
func handleKind(c *gin.Context, err error) {
	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrMalformedInput:
		response.ErrorWithDetails(c, http.StatusBadRequest, codeMalformedInput, "некорректные входные данные", err.Error())
	case pkgerrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	case pkgerrors.ErrEmptyResult:
		response.Empty(c, err.Error())
	case pkgerrors.ErrConflict:
		response.Conflict(c, codeConflict, err.Error())
	default:
		response.InternalError(c)
	}
}

// readFormFile читает файл из multipart-поля целиком.
// limit > 0 ограничивает размер файла.
func readFormFile(c *gin.Context, field string, limit int64) ([]byte, string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	var r io.Reader = file
	if limit > 0 {
		r = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, "", &http.MaxBytesError{Limit: limit}
	}
	return data, header.Filename, nil
}

// handleFormError 413 при превышении лимита, иначе 400
func handleFormError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "файл слишком большой")
		return
	}
	if errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(c, codeInvalidParams, "не передан файл "+field)
		return
	}
	response.BadRequest(c, codeInvalidParams, "не удалось прочитать файл "+field)
}
