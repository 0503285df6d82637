package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/response"
)

// Start godoc
// @Summary     Start a conversation
// @Description Opens a slot-filling session and returns it with the greeting message.
// @Tags        Conversations
// @Produce     json
// @Param       X-User-ID header string true "Caller id"
// @Success     201 {object} sessionResp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Router      /api/v1/conversations [POST]
func (h *handler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	s, err := h.uc.Start(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "uc.Start: %v", err)
		response.Error(c, h.mapError(err, ""))
		return
	}

	response.Created(c, sessionResp{Snapshot: s})
}

// Get godoc
// @Summary     Get a conversation
// @Tags        Conversations
// @Produce     json
// @Param       X-User-ID header string true "Caller id"
// @Param       id        path   string true "Session id"
// @Success     200 {object} sessionResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/conversations/{id} [GET]
func (h *handler) Get(c *gin.Context) {
	h.lifecycle(c, "uc.Get", h.uc.Get)
}

// SendMessage godoc
// @Summary     Send a user message
// @Description Runs one turn: control tokens (登録する, 登録しない, このまま登録, キャンセル) act on the
// @Description session, anything else is extracted. Model failures still return 200 with a warning.
// @Tags        Conversations
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string         true "Caller id"
// @Param       id        path   string         true "Session id"
// @Param       body      body   sendMessageReq true "Message"
// @Success     200 {object} turnResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Session closed or turn superseded"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Failure     500 {object} response.Resp "Database error"
// @Router      /api/v1/conversations/{id}/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.processSendMessageReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.SendMessage(ctx, sc, req.toInput(id))
	if err != nil {
		h.l.Warnf(ctx, "uc.SendMessage: session=%s: %v", id, err)
		response.Error(c, h.mapError(err, id))
		return
	}

	response.OK(c, h.newTurnResp(out))
}

// Cancel godoc
// @Summary     Cancel a conversation
// @Description Discards the collected fields. Cancelling twice is a no-op.
// @Tags        Conversations
// @Produce     json
// @Param       X-User-ID header string true "Caller id"
// @Param       id        path   string true "Session id"
// @Success     200 {object} sessionResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Session already completed"
// @Router      /api/v1/conversations/{id}/cancel [POST]
func (h *handler) Cancel(c *gin.Context) {
	h.lifecycle(c, "uc.Cancel", h.uc.Cancel)
}

// Reset godoc
// @Summary     Reset a conversation
// @Description Clears the transcript and state, keeping the session id.
// @Tags        Conversations
// @Produce     json
// @Param       X-User-ID header string true "Caller id"
// @Param       id        path   string true "Session id"
// @Success     200 {object} sessionResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/conversations/{id}/reset [POST]
func (h *handler) Reset(c *gin.Context) {
	h.lifecycle(c, "uc.Reset", h.uc.Reset)
}

type sessionOp func(ctx context.Context, sc model.Scope, sessionID string) (conversation.Snapshot, error)

func (h *handler) lifecycle(c *gin.Context, name string, op sessionOp) {
	ctx := c.Request.Context()
	id := c.Param("id")

	sc, err := h.scope(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	s, err := op(ctx, sc, id)
	if err != nil {
		h.l.Warnf(ctx, "%s: session=%s: %v", name, id, err)
		response.Error(c, h.mapError(err, id))
		return
	}

	response.OK(c, sessionResp{Snapshot: s})
}
