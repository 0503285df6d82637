package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/pkg/response"
)

// Create godoc
// @Summary     Register a task
// @Description Stores a task directly. Tasks with scheduledAt are created as "scheduled" and,
// @Description when a calendar is configured, get a Google Calendar event.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string    true "Caller id"
// @Param       body      body   createReq true "Task"
// @Success     201 {object} taskResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     422 {object} response.Resp "Missing title or category"
// @Failure     500 {object} response.Resp "Database error"
// @Router      /api/v1/tasks [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processCreateReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	t, err := h.uc.Create(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Create: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.Created(c, taskResp{Task: t})
}

// List godoc
// @Summary     List tasks
// @Description Returns the caller's tasks, newest first.
// @Tags        Tasks
// @Produce     json
// @Param       X-User-ID header string true  "Caller id"
// @Param       status    query  string false "inbox, scheduled, completed or archived"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Database error"
// @Router      /api/v1/tasks [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tasks, err := h.uc.List(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.List: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newListResp(tasks))
}

// UpdateStatus godoc
// @Summary     Change a task's status
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string          true "Caller id"
// @Param       id        path   string          true "Task ID"
// @Param       body      body   updateStatusReq true "New status"
// @Success     200 {object} taskResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/tasks/{id}/status [PATCH]
func (h *handler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processUpdateStatusReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	t, err := h.uc.UpdateStatus(ctx, sc, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.UpdateStatus: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, taskResp{Task: t})
}

// Schedule godoc
// @Summary     Schedule a task
// @Description Sets scheduledAt and moves the task to "scheduled" in one update.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string      true "Caller id"
// @Param       id        path   string      true "Task ID"
// @Param       body      body   scheduleReq true "Zoned timestamp"
// @Success     200 {object} taskResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/tasks/{id}/schedule [PATCH]
func (h *handler) Schedule(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processScheduleReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	t, err := h.uc.Schedule(ctx, sc, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Schedule: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, taskResp{Task: t})
}
