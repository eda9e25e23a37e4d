package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nthora.app/server/common/id"
	"nthora.app/server/common/logger"
	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/search"
	"nthora.app/server/internal/store"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrEmptyQuestion    = errors.New("question title and content are required")
)

type FeedView string

const (
	ViewAll     FeedView = "all"
	ViewMine    FeedView = "my_questions"
	ViewMatched FeedView = "matched_questions"
	ViewExplore FeedView = "explore_topics"
)

const defaultFeedLimit = 50

type PostQuestionParams struct {
	AuthorID      int64
	Title         string
	Content       string
	PrimaryTags   []string
	SecondaryTags []string
	AnswerType    model.AnswerType
	Urgency       model.Urgency
	Visibility    model.Visibility
}

type PostResponseParams struct {
	QuestionID  int64
	ResponderID int64
	Content     string
	SourceType  model.ResponseSource
}

type QuestionService interface {
	Feed(ctx context.Context, userID int64, view FeedView, topic string, demo bool) ([]model.Question, error)
	Get(ctx context.Context, id int64) (*model.Question, []model.Response, error)
	Post(ctx context.Context, params PostQuestionParams) (*model.Question, error)
	Respond(ctx context.Context, params PostResponseParams) (*model.Response, error)
	Vote(ctx context.Context, responseID, voterID int64, helpful bool) (*model.Response, error)
	// SeedDemo upserts the synthetic dataset; the fixed row ids make
	// repeated calls idempotent.
	SeedDemo(ctx context.Context) (int, error)
}

type questionService struct {
	questionStore  store.QuestionStore
	responseStore  store.ResponseStore
	expertiseStore store.ExpertiseStore
	classifier     *classify.Classifier
	searcher       search.Client
	producer       queue.Producer
}

func NewQuestionService(
	questionStore store.QuestionStore,
	responseStore store.ResponseStore,
	expertiseStore store.ExpertiseStore,
	classifier *classify.Classifier,
	searcher search.Client,
	producer queue.Producer,
) QuestionService {
	return &questionService{
		questionStore:  questionStore,
		responseStore:  responseStore,
		expertiseStore: expertiseStore,
		classifier:     classifier,
		searcher:       searcher,
		producer:       producer,
	}
}

func (s *questionService) Feed(ctx context.Context, userID int64, view FeedView, topic string, demo bool) ([]model.Question, error) {
	if demo {
		return s.questionStore.ListDemo(ctx, defaultFeedLimit)
	}

	switch view {
	case ViewMine:
		return s.questionStore.ListByAuthor(ctx, userID, defaultFeedLimit)
	case ViewMatched:
		expertise, err := s.expertiseStore.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("listing expertise: %w", err)
		}
		tags := make([]string, 0, len(expertise))
		for _, e := range expertise {
			tags = append(tags, e.Tag)
		}
		if len(tags) == 0 {
			return []model.Question{}, nil
		}
		return s.questionStore.ListMatched(ctx, tags, userID, defaultFeedLimit)
	case ViewExplore:
		return s.explore(ctx, topic)
	default:
		return s.questionStore.ListAll(ctx, defaultFeedLimit)
	}
}

func (s *questionService) explore(ctx context.Context, topic string) ([]model.Question, error) {
	if topic == "" {
		return s.questionStore.ListAll(ctx, defaultFeedLimit)
	}

	if s.searcher != nil {
		ids, err := s.searcher.Search(ctx, topic, defaultFeedLimit)
		if err == nil {
			questions := make([]model.Question, 0, len(ids))
			for _, qid := range ids {
				q, getErr := s.questionStore.GetByID(ctx, qid)
				if getErr != nil {
					continue
				}
				questions = append(questions, *q)
			}
			return questions, nil
		}
		slog.WarnContext(ctx, "search backend unavailable, falling back to SQL", "error", err)
	}

	return s.questionStore.SearchTopics(ctx, topic, defaultFeedLimit)
}

func (s *questionService) Get(ctx context.Context, questionID int64) (*model.Question, []model.Response, error) {
	q, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrQuestionNotFound
		}
		return nil, nil, fmt.Errorf("getting question: %w", err)
	}

	responses, err := s.responseStore.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing responses: %w", err)
	}

	if err := s.questionStore.IncrementViews(ctx, questionID); err != nil {
		slog.WarnContext(ctx, "failed to bump view count", "error", err, "question_id", questionID)
	}

	return q, responses, nil
}

func (s *questionService) Post(ctx context.Context, params PostQuestionParams) (*model.Question, error) {
	if params.Title == "" || params.Content == "" {
		return nil, ErrEmptyQuestion
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    logger.Ptr(params.AuthorID),
		Component: "nthora.service.question",
	})

	q := &model.Question{
		ID:            id.New(),
		AuthorID:      params.AuthorID,
		Title:         params.Title,
		Content:       params.Content,
		PrimaryTags:   params.PrimaryTags,
		SecondaryTags: params.SecondaryTags,
		AnswerType:    params.AnswerType,
		Urgency:       params.Urgency,
		Visibility:    params.Visibility,
		Status:        model.QuestionStatusActive,
	}
	if q.AnswerType == "" {
		q.AnswerType = model.AnswerTypeTactical
	}
	if q.Visibility == "" {
		q.Visibility = model.VisibilitySecondDegree
	}

	// Classification fills in whatever the caller left blank.
	if len(q.PrimaryTags) == 0 || q.Urgency == "" {
		result := s.classifier.Classify(ctx, classify.KindHelpTopics, params.Title+" "+params.Content)
		if len(q.PrimaryTags) == 0 {
			q.PrimaryTags = result.Tags
		}
		if q.Urgency == "" && result.Urgency != "" {
			q.Urgency = model.Urgency(result.Urgency)
		}
		if len(result.Tags) > 0 {
			q.Topic = result.Tags[0]
		}
	}
	if q.Urgency == "" {
		q.Urgency = model.UrgencyMedium
	}

	if err := s.questionStore.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}

	if s.searcher != nil {
		if err := s.searcher.Index(ctx, q); err != nil {
			slog.WarnContext(ctx, "failed to index question", "error", err, "question_id", q.ID)
		}
	}

	if err := s.producer.Enqueue(ctx, queue.Event{
		Type:       queue.EventQuestionPosted,
		UserID:     q.AuthorID,
		QuestionID: &q.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue question event", "error", err, "question_id", q.ID)
	}

	slog.InfoContext(ctx, "question posted",
		"question_id", q.ID,
		"tags", len(q.PrimaryTags),
		"urgency", q.Urgency,
	)
	return q, nil
}

func (s *questionService) Respond(ctx context.Context, params PostResponseParams) (*model.Response, error) {
	if _, err := s.questionStore.GetByID(ctx, params.QuestionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("getting question: %w", err)
	}

	sourceType := params.SourceType
	if sourceType == "" {
		sourceType = model.ResponseSourceHuman
	}

	r := &model.Response{
		ID:          id.New(),
		QuestionID:  params.QuestionID,
		ResponderID: params.ResponderID,
		Content:     params.Content,
		SourceType:  sourceType,
	}

	if err := s.responseStore.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating response: %w", err)
	}

	if err := s.producer.Enqueue(ctx, queue.Event{
		Type:       queue.EventResponsePosted,
		UserID:     r.ResponderID,
		QuestionID: &r.QuestionID,
		ResponseID: &r.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue response event", "error", err, "response_id", r.ID)
	}

	return r, nil
}

func (s *questionService) Vote(ctx context.Context, responseID, voterID int64, helpful bool) (*model.Response, error) {
	r, err := s.responseStore.Vote(ctx, responseID, helpful)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("voting on response: %w", err)
	}

	if err := s.producer.Enqueue(ctx, queue.Event{
		Type:       queue.EventVoteCast,
		UserID:     r.ResponderID,
		QuestionID: &r.QuestionID,
		ResponseID: &r.ID,
		Helpful:    &helpful,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue vote event", "error", err, "response_id", r.ID)
	}

	return r, nil
}
