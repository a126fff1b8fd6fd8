package dto

import "college-schedule/backend/internal/timetable"

// BellMergeResult итог применения таблицы звонков
type BellMergeResult struct {
	ModifiedRecords int      `json:"modified_records"`
	TotalRecords    int      `json:"total_records"`
	Days            []string `json:"days,omitempty"`
}

// BellTablesResponse сохранённые таблицы звонков
type BellTablesResponse struct {
	Main      timetable.BellTable `json:"main"`
	Overrides timetable.BellTable `json:"overrides,omitempty"`
}
