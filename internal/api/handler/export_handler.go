package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"college-schedule/backend/internal/service"
	"college-schedule/backend/internal/timetable"
	"college-schedule/backend/pkg/response"
)

const (
	contentTypeCalendar = "text/calendar; charset=utf-8"
	contentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler выгрузка расписаний в файлы
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler создаёт ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// GroupCalendar недельное расписание группы в iCalendar
// GET /api/v1/export/groups/:group/calendar
func (h *ExportHandler) GroupCalendar(c *gin.Context) {
	data, filename, err := h.exportSvc.GroupCalendar(c.Request.Context(), c.Param("group"))
	if err != nil {
		handleExportError(c, err)
		return
	}
	attachment(c, filename, contentTypeCalendar, data)
}

// TeacherWorkbook расписание преподавателя в XLSX
// GET /api/v1/export/teacher?fio=&day=
func (h *ExportHandler) TeacherWorkbook(c *gin.Context) {
	buf, filename, err := h.exportSvc.TeacherWorkbook(c.Request.Context(), c.Query("fio"), c.Query("day"))
	if err != nil {
		handleExportError(c, err)
		return
	}
	attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// attachment отдаёт файл на скачивание
func attachment(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalendarEmpty):
		response.Empty(c, "у группы нет занятий с известным временем")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13101, "группа не найдена")
	case errors.Is(err, timetable.ErrTeacherNotFound):
		response.NotFound(c, 13102, "преподаватель не найден")
	case errors.Is(err, timetable.ErrEmptyTeacherQuery):
		response.BadRequest(c, 13103, "не указано ФИО преподавателя")
	case errors.Is(err, timetable.ErrNoLessonsOnDay):
		response.Empty(c, "у преподавателя нет занятий в этот день")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleKind(c, err)
	}
}
