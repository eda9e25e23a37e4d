package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/service"
)

type QuestionHandler struct {
	questions service.QuestionService
}

func NewQuestionHandler(questions service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	view := service.FeedView(c.DefaultQuery("view", string(service.ViewAll)))
	topic := c.Query("topic")
	demo := c.Query("demo") == "true"

	questions, err := h.questions.Feed(ctx, user.ID, view, topic, demo)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load feed", "error", err, "view", view)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	question, responses, err := h.questions.Get(ctx, questionID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get question", "error", err, "question_id", questionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question, "responses": responses})
}

type PostQuestionRequest struct {
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content" binding:"required"`
	PrimaryTags   []string `json:"primary_tags"`
	SecondaryTags []string `json:"secondary_tags"`
	AnswerType    string   `json:"answer_type"`
	Urgency       string   `json:"urgency"`
	Visibility    string   `json:"visibility"`
}

func (h *QuestionHandler) Post(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req PostQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	question, err := h.questions.Post(ctx, service.PostQuestionParams{
		AuthorID:      user.ID,
		Title:         req.Title,
		Content:       req.Content,
		PrimaryTags:   req.PrimaryTags,
		SecondaryTags: req.SecondaryTags,
		AnswerType:    model.AnswerType(req.AnswerType),
		Urgency:       model.Urgency(req.Urgency),
		Visibility:    model.Visibility(req.Visibility),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to post question", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post question"})
		return
	}

	c.JSON(http.StatusCreated, question)
}

type PostResponseRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *QuestionHandler) Respond(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	var req PostResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	response, err := h.questions.Respond(ctx, service.PostResponseParams{
		QuestionID:  questionID,
		ResponderID: user.ID,
		Content:     req.Content,
		SourceType:  model.ResponseSourceHuman,
	})
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to post response", "error", err, "question_id", questionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post response"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

type VoteRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

func (h *QuestionHandler) Vote(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	responseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid response id"})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "helpful is required"})
		return
	}

	response, err := h.questions.Vote(ctx, responseID, user.ID, *req.Helpful)
	if err != nil {
		if errors.Is(err, service.ErrResponseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to vote", "error", err, "response_id", responseID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *QuestionHandler) SeedDemo(c *gin.Context) {
	ctx := c.Request.Context()

	inserted, err := h.questions.SeedDemo(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to seed demo data", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed demo data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seeded": inserted})
}
