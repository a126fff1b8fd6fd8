package handler

import "college-schedule/backend/internal/service"

// Handler все обработчики HTTP
type Handler struct {
	Schedule *ScheduleHandler
	Bell     *BellHandler
	Export   *ExportHandler
}

// NewHandler создаёт обработчики поверх сервисов
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Schedule: NewScheduleHandler(svc.Schedule, svc.Ingest),
		Bell:     NewBellHandler(svc.Bell),
		Export:   NewExportHandler(svc.Export),
	}
}
