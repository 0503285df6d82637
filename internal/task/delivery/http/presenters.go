package http

import (
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
)

// --- Request DTOs ---

type createReq struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	Deadline        string `json:"deadline"`
	ScheduledAt     string `json:"scheduledAt"`
	DurationMinutes *int   `json:"durationMinutes"`
	RawInput        string `json:"rawInput"`
}

func (r createReq) toInput() task.CreateInput {
	return task.CreateInput{
		Title:           r.Title,
		Category:        model.Category(r.Category),
		Deadline:        r.Deadline,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		RawInput:        r.RawInput,
	}
}

type listReq struct {
	Status string `form:"status"`
}

func (r listReq) toInput() task.ListInput {
	return task.ListInput{Status: model.TaskStatus(r.Status)}
}

type updateStatusReq struct {
	ID     string `json:"-"`
	Status string `json:"status" binding:"required"`
}

func (r updateStatusReq) toInput() task.UpdateStatusInput {
	return task.UpdateStatusInput{ID: r.ID, Status: model.TaskStatus(r.Status)}
}

type scheduleReq struct {
	ID          string `json:"-"`
	ScheduledAt string `json:"scheduledAt" binding:"required"`
}

func (r scheduleReq) toInput() task.ScheduleInput {
	return task.ScheduleInput{ID: r.ID, ScheduledAt: r.ScheduledAt}
}

// --- Response DTOs ---

type taskResp struct {
	Task model.Task `json:"task"`
}

type listResp struct {
	Tasks []model.Task `json:"tasks"`
	Count int          `json:"count"`
}

func (h *handler) newListResp(tasks []model.Task) listResp {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return listResp{Tasks: tasks, Count: len(tasks)}
}
