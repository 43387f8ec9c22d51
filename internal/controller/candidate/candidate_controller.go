package candidate

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/internal/controller"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/service"
)

type CandidateController struct {
	candidateService service.CandidateService
}

func NewCandidateController(cs service.CandidateService) *CandidateController {
	return &CandidateController{candidateService: cs}
}

// OpenInvitation godoc
// @Summary (Candidate) Open an invitation link
// @Description Returns the test and its questions without answers. Unknown, used, expired and inactive links all answer 404.
// @Tags Candidate
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.CandidateTestDTO
// @Failure 404 {object} dto.ErrorResponse "Link not available"
// @Router /test-invitation/{token} [get]
func (c *CandidateController) OpenInvitation(ctx *gin.Context) {
	resp, err := c.candidateService.OpenInvitation(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "OpenInvitation")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartAttempt godoc
// @Summary (Candidate) Start the test
// @Description Spends the invitation token and opens an attempt. The token then identifies the attempt.
// @Tags Candidate
// @Produce json
// @Param token path string true "Invitation token"
// @Success 201 {object} dto.AttemptStartedResponse
// @Failure 404 {object} dto.ErrorResponse "Link not available"
// @Router /test-invitation/{token}/attempt [post]
func (c *CandidateController) StartAttempt(ctx *gin.Context) {
	resp, err := c.candidateService.StartAttempt(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "StartAttempt")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// RecordResponse godoc
// @Summary (Candidate) Record a selected option
// @Description For single choice questions the latest selection replaces earlier ones.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param response body dto.RecordResponseRequest true "Selected option"
// @Success 201 {object} dto.IDResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid selection"
// @Failure 403 {object} dto.ErrorResponse "Attempt already submitted"
// @Failure 404 {object} dto.ErrorResponse "No attempt for this token"
// @Router /test-invitation/{token}/attempt/responses [post]
func (c *CandidateController) RecordResponse(ctx *gin.Context) {
	var req dto.RecordResponseRequest
	if !controller.BindJSON(ctx, &req, "RecordResponse") {
		return
	}
	id, err := c.candidateService.RecordAnswer(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		controller.RespondError(ctx, err, "RecordResponse")
		return
	}
	ctx.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// SubmitAttempt godoc
// @Summary (Candidate) Submit and grade the attempt
// @Description Submissions after the deadline are accepted and flagged late.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param submission body dto.SubmitAttemptRequest true "Answers"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid answers"
// @Failure 403 {object} dto.ErrorResponse "Attempt already submitted"
// @Failure 404 {object} dto.ErrorResponse "No attempt for this token"
// @Router /test-invitation/{token}/attempt/submit [post]
func (c *CandidateController) SubmitAttempt(ctx *gin.Context) {
	var req dto.SubmitAttemptRequest
	if !controller.BindJSON(ctx, &req, "SubmitAttempt") {
		return
	}
	resp, err := c.candidateService.SubmitAttempt(ctx.Request.Context(), ctx.Param("token"), req)
	if err != nil {
		controller.RespondError(ctx, err, "SubmitAttempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAttemptResult godoc
// @Summary (Candidate) Get an attempt and its grade
// @Tags Candidate
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 404 {object} dto.ErrorResponse "No attempt for this token"
// @Router /test-invitation/{token}/attempt [get]
func (c *CandidateController) GetAttemptResult(ctx *gin.Context) {
	resp, err := c.candidateService.GetAttemptResult(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "GetAttemptResult")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
