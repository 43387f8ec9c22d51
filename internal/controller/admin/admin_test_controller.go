package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizgate/internal/controller"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/lshigami/quizgate/internal/middleware"
	"github.com/lshigami/quizgate/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	testService     service.TestService
	questionService service.QuestionService
	generator       service.QuestionGenerator
}

// auditLog starts an info event tagged with the admin who made the request.
func auditLog(ctx *gin.Context) *zerolog.Event {
	id, ok := middleware.AdminID(ctx)
	if !ok {
		id = "unknown"
	}
	return log.Info().Str("adminID", id)
}

func NewAdminTestController(testService service.TestService, questionService service.QuestionService, generator service.QuestionGenerator) *AdminTestController {
	return &AdminTestController{testService: testService, questionService: questionService, generator: generator}
}

// CreateTest godoc
// @Summary (Admin) Create a test
// @Description Creates test metadata. Questions are added with the questions endpoint.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_data body dto.CreateTestRequest true "Test metadata"
// @Success 201 {object} dto.TestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.CreateTestRequest
	if !controller.BindJSON(ctx, &req, "CreateTest") {
		return
	}
	resp, err := c.testService.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "CreateTest")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTests godoc
// @Summary (Admin) List tests
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [get]
func (c *AdminTestController) ListTests(ctx *gin.Context) {
	tests, err := c.testService.ListTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "ListTests")
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary (Admin) Get a test
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [get]
func (c *AdminTestController) GetTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	resp, err := c.testService.GetTest(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "GetTest")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateTest godoc
// @Summary (Admin) Update test metadata
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param test_data body dto.UpdateTestRequest true "Test metadata"
// @Success 200 {object} dto.TestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [put]
func (c *AdminTestController) UpdateTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.UpdateTestRequest
	if !controller.BindJSON(ctx, &req, "UpdateTest") {
		return
	}
	resp, err := c.testService.UpdateTest(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "UpdateTest")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ToggleTestStatus godoc
// @Summary (Admin) Activate or deactivate a test
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/toggle-status [patch]
func (c *AdminTestController) ToggleTestStatus(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	resp, err := c.testService.ToggleActive(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "ToggleTestStatus")
		return
	}
	auditLog(ctx).Uint("testID", id).Bool("active", resp.IsActive).Msg("Test status toggled")
	ctx.JSON(http.StatusOK, resp)
}

// DeleteTest godoc
// @Summary (Admin) Delete an inactive test
// @Description Deletes the test and its questions. Active tests must be deactivated first.
// @Tags Admin - Tests
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse "Test is active"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [delete]
func (c *AdminTestController) DeleteTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	if err := c.testService.DeleteTest(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "DeleteTest")
		return
	}
	auditLog(ctx).Uint("testID", id).Msg("Test deleted")
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a test
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param question body dto.CreateQuestionRequest true "Question with choices and answer key"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/questions [post]
func (c *AdminTestController) AddQuestion(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if !controller.BindJSON(ctx, &req, "AddQuestion") {
		return
	}
	resp, err := c.questionService.AddQuestion(ctx.Request.Context(), testID, req)
	if err != nil {
		controller.RespondError(ctx, err, "AddQuestion")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary (Admin) List the questions of a test
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id}/questions [get]
func (c *AdminTestController) ListQuestions(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	resp, err := c.questionService.ListQuestions(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, err, "ListQuestions")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetQuestion godoc
// @Summary (Admin) Get a question
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [get]
func (c *AdminTestController) GetQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	resp, err := c.questionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "GetQuestion")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question without responses
// @Tags Admin - Questions
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse "Question has responses"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [delete]
func (c *AdminTestController) DeleteQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.questionService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "DeleteQuestion")
		return
	}
	auditLog(ctx).Uint("questionID", id).Msg("Question deleted")
	ctx.Status(http.StatusNoContent)
}

// GenerateQuestions godoc
// @Summary (Admin) Draft questions with AI
// @Description Returns validated drafts. Nothing is saved.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateQuestionsRequest true "Topic and question type"
// @Success 200 {array} dto.QuestionDraft
// @Failure 503 {object} dto.ErrorResponse "Generation unavailable"
// @Router /admin/questions/generate [post]
func (c *AdminTestController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if !controller.BindJSON(ctx, &req, "GenerateQuestions") {
		return
	}
	drafts, err := c.generator.GenerateDrafts(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "GenerateQuestions")
		return
	}
	ctx.JSON(http.StatusOK, drafts)
}
