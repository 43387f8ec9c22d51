package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/internal/controller"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/service"
)

// AdminAccessController manages access tokens, candidate invitations and
// the attempts they lead to.
type AdminAccessController struct {
	tokenService      service.AccessTokenService
	invitationService service.InvitationService
	candidateService  service.CandidateService
}

func NewAdminAccessController(
	tokenService service.AccessTokenService,
	invitationService service.InvitationService,
	candidateService service.CandidateService,
) *AdminAccessController {
	return &AdminAccessController{
		tokenService:      tokenService,
		invitationService: invitationService,
		candidateService:  candidateService,
	}
}

// IssueToken godoc
// @Summary (Admin) Issue an access token without sending email
// @Description Reuses an unused, unexpired token for the same candidate and test when one exists.
// @Tags Admin - Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param request body dto.IssueTokenRequest true "Candidate and lifetime"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/tokens [post]
func (c *AdminAccessController) IssueToken(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.IssueTokenRequest
	if !controller.BindJSON(ctx, &req, "IssueToken") {
		return
	}
	resp, err := c.tokenService.Issue(ctx.Request.Context(), testID, req.CandidateEmail, req.ExpirationHours)
	if err != nil {
		controller.RespondError(ctx, err, "IssueToken")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTokens godoc
// @Summary (Admin) List access tokens of a test
// @Tags Admin - Access
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.TokenResponse
// @Router /admin/tests/{test_id}/tokens [get]
func (c *AdminAccessController) ListTokens(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	resp, err := c.tokenService.ListForTest(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, err, "ListTokens")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ResolveToken godoc
// @Summary (Admin) Look up an access token
// @Tags Admin - Access
// @Produce json
// @Security BearerAuth
// @Param token path string true "Token value"
// @Success 200 {object} dto.TokenResponse
// @Failure 404 {object} dto.ErrorResponse "Token not found"
// @Router /admin/tokens/{token} [get]
func (c *AdminAccessController) ResolveToken(ctx *gin.Context) {
	resp, err := c.tokenService.Resolve(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		controller.RespondError(ctx, err, "ResolveToken")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SendInvitation godoc
// @Summary (Admin) Invite a candidate by email
// @Tags Admin - Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InvitationRequest true "Invitation"
// @Success 201 {object} dto.InvitationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 502 {object} dto.ErrorResponse "Email delivery failed"
// @Router /admin/invitations [post]
func (c *AdminAccessController) SendInvitation(ctx *gin.Context) {
	var req dto.InvitationRequest
	if !controller.BindJSON(ctx, &req, "SendInvitation") {
		return
	}
	resp, err := c.invitationService.SendInvitation(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "SendInvitation")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SendBulkInvitations godoc
// @Summary (Admin) Invite several candidates
// @Description Each candidate is processed independently; see per-candidate results.
// @Tags Admin - Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkInvitationRequest true "Invitations"
// @Success 200 {object} dto.BulkInvitationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/invitations/bulk [post]
func (c *AdminAccessController) SendBulkInvitations(ctx *gin.Context) {
	var req dto.BulkInvitationRequest
	if !controller.BindJSON(ctx, &req, "SendBulkInvitations") {
		return
	}
	resp, err := c.invitationService.SendBulkInvitations(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "SendBulkInvitations")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListAttempts godoc
// @Summary (Admin) List attempts of a test
// @Tags Admin - Access
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.AttemptResultResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/attempts [get]
func (c *AdminAccessController) ListAttempts(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	resp, err := c.candidateService.ListAttempts(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, err, "ListAttempts")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
