package http

import (
	"github.com/gin-gonic/gin"

	"task-intake-assistant/pkg/response"
)

// Parse godoc
// @Summary     Extract task fields from free text
// @Description Runs one extraction turn. Canned answers and control tokens are resolved locally;
// @Description everything else goes to the LLM. Model failures still return 200 with a fallback
// @Description result and a warning.
// @Tags        Extraction
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string   true "Caller id"
// @Param       body      body   parseReq true "Parse request"
// @Success     200 {object} parseResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/tasks/parse [POST]
func (h *handler) Parse(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processParseReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ParseTask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.ParseTask: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newParseResp(out))
}
