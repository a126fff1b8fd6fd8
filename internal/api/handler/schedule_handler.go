package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"college-schedule/backend/internal/docreader"
	"college-schedule/backend/internal/dto"
	"college-schedule/backend/internal/service"
	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
	"college-schedule/backend/pkg/response"
)

// ScheduleHandler расписания групп, загрузка документа, расписание преподавателя
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	ingestSvc   service.IngestService
}

// NewScheduleHandler создаёт ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, ingestSvc service.IngestService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, ingestSvc: ingestSvc}
}

// ListGroups список групп
// GET /api/v1/schedule
func (h *ScheduleHandler) ListGroups(c *gin.Context) {
	list, err := h.scheduleSvc.List(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list, "total": len(list)})
}

// GetGroup расписание группы
// GET /api/v1/schedule/groups/:group?day=
func (h *ScheduleHandler) GetGroup(c *gin.Context) {
	resp, err := h.scheduleSvc.GetByGroup(c.Request.Context(), c.Param("group"), c.Query("day"))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpsertGroup создаёт или заменяет запись группы
// POST /api/v1/schedule
func (h *ScheduleHandler) UpsertGroup(c *gin.Context) {
	var req dto.UpsertGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "параметры не прошли проверку")
		return
	}

	rec, err := h.scheduleSvc.Upsert(c.Request.Context(), &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Created(c, rec)
}

// DeleteGroup удаляет запись группы
// DELETE /api/v1/schedule/groups/:group
func (h *ScheduleHandler) DeleteGroup(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("group")); err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Upload загружает документ расписания
// POST /api/v1/schedule/upload
//
// multipart/form-data:
//   - schedule_file: .docx или .xlsx
//   - shifts_file: JSON со сменами групп, необязательно
func (h *ScheduleHandler) Upload(c *gin.Context) {
	doc, filename, err := readFormFile(c, "schedule_file", 0)
	if err != nil {
		handleFormError(c, "schedule_file", err)
		return
	}
	if !docreader.Supported(filename) {
		response.BadRequest(c, 11201, "поддерживаются только файлы .docx и .xlsx")
		return
	}

	in := service.UploadInput{Filename: filename, Document: doc}
	shifts, _, err := readFormFile(c, "shifts_file", maxSideFileBytes)
	switch {
	case err == nil:
		in.Shifts = shifts
	case errors.Is(err, http.ErrMissingFile):
	default:
		handleFormError(c, "shifts_file", err)
		return
	}

	result, err := h.ingestSvc.Upload(c.Request.Context(), in)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// TeacherSchedule расписание преподавателя
// GET /api/v1/schedule/teacher?fio=&day=
func (h *ScheduleHandler) TeacherSchedule(c *gin.Context) {
	view, err := h.scheduleSvc.TeacherSchedule(c.Request.Context(), c.Query("fio"), c.Query("day"))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, view)
}

// handleScheduleError ошибки модуля расписаний
func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 11101, "группа не найдена")
	case errors.Is(err, timetable.ErrTeacherNotFound):
		response.NotFound(c, 11102, "преподаватель не найден")
	case errors.Is(err, timetable.ErrEmptyTeacherQuery):
		response.BadRequest(c, 11103, "не указано ФИО преподавателя")
	case errors.Is(err, service.ErrInvalidGroupName):
		response.BadRequest(c, 11104, "не указано название группы")
	case errors.Is(err, service.ErrInvalidSlot):
		response.BadRequest(c, 11105, "номер урока в days должен быть больше 0")
	case errors.Is(err, timetable.ErrNoLessonsForGroupDay):
		response.Empty(c, "у группы нет занятий в этот день")
	case errors.Is(err, timetable.ErrNoLessonsOnDay):
		response.Empty(c, "у преподавателя нет занятий в этот день")
	case errors.Is(err, docreader.ErrUnsupportedFormat):
		response.BadRequest(c, 11201, "поддерживаются только файлы .docx и .xlsx")
	case errors.Is(err, service.ErrEmptyDocument):
		response.BadRequest(c, 11202, "пустой файл расписания")
	case errors.Is(err, timetable.ErrTableCountMismatch):
		response.ErrorWithDetails(c, http.StatusBadRequest, 11203, "число таблиц не совпадает с числом групп", err.Error())
	case errors.Is(err, service.ErrIngestInProgress):
		response.Conflict(c, 11204, "загрузка расписания уже выполняется")
	case errors.Is(err, pkgerrors.ErrMalformedInput):
		response.ErrorWithDetails(c, http.StatusBadRequest, 11205, "не удалось разобрать файл", err.Error())
	default:
		handleKind(c, err)
	}
}
