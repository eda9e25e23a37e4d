package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/service"
)

type stubRemote struct {
	fn func(ctx context.Context, kind classify.Kind, text string) (classify.Classification, error)
}

func (s *stubRemote) Classify(ctx context.Context, kind classify.Kind, text string) (classify.Classification, error) {
	return s.fn(ctx, kind, text)
}

var _ = Describe("QuestionService", func() {
	var (
		svc           service.QuestionService
		mockQuestions *mockQuestionStore
		mockResponses *mockResponseStore
		mockExpertise *mockExpertiseStore
		mockSearch    *mockSearchClient
		producer      *mockProducer
		remote        *stubRemote
		ctx           context.Context
	)

	newService := func() service.QuestionService {
		return service.NewQuestionService(
			mockQuestions, mockResponses, mockExpertise,
			classify.New(remote), mockSearch, producer,
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockQuestions = &mockQuestionStore{}
		mockResponses = &mockResponseStore{}
		mockExpertise = &mockExpertiseStore{}
		mockSearch = &mockSearchClient{}
		producer = &mockProducer{}
		remote = &stubRemote{fn: func(_ context.Context, _ classify.Kind, _ string) (classify.Classification, error) {
			return classify.Classification{Tags: []string{"fundraising"}, Urgency: "high", Confidence: 0.8}, nil
		}}
		svc = newService()
	})

	Describe("Post", func() {
		It("rejects empty title or content", func() {
			_, err := svc.Post(ctx, service.PostQuestionParams{AuthorID: 1, Title: "x"})

			Expect(err).To(MatchError(service.ErrEmptyQuestion))
		})

		It("fills tags, urgency and topic from classification when the caller omits them", func() {
			var captured *model.Question
			mockQuestions.createFn = func(_ context.Context, q *model.Question) error {
				captured = q
				return nil
			}

			q, err := svc.Post(ctx, service.PostQuestionParams{
				AuthorID: 1,
				Title:    "How should I approach seed investors?",
				Content:  "First-time founder, no warm intros, raising 1.5M.",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(q.PrimaryTags).To(Equal([]string{"fundraising"}))
			Expect(q.Urgency).To(Equal(model.Urgency("high")))
			Expect(q.Topic).To(Equal("fundraising"))
			Expect(captured).NotTo(BeNil())
		})

		It("keeps caller-supplied tags and urgency", func() {
			q, err := svc.Post(ctx, service.PostQuestionParams{
				AuthorID:    1,
				Title:       "Scaling our API layer",
				Content:     "We are hitting limits on a single postgres instance.",
				PrimaryTags: []string{"engineering"},
				Urgency:     model.UrgencyLow,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(q.PrimaryTags).To(Equal([]string{"engineering"}))
			Expect(q.Urgency).To(Equal(model.UrgencyLow))
		})

		It("defaults answer type, visibility and urgency", func() {
			remote.fn = func(_ context.Context, _ classify.Kind, _ string) (classify.Classification, error) {
				return classify.Classification{Tags: []string{}}, nil
			}

			q, err := svc.Post(ctx, service.PostQuestionParams{
				AuthorID: 1,
				Title:    "A question with no hints at all",
				Content:  "Plain content without any matching keywords here.",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(q.AnswerType).To(Equal(model.AnswerTypeTactical))
			Expect(q.Visibility).To(Equal(model.VisibilitySecondDegree))
			Expect(q.Urgency).To(Equal(model.UrgencyMedium))
		})

		It("indexes the question and emits a posted event", func() {
			q, err := svc.Post(ctx, service.PostQuestionParams{
				AuthorID: 1,
				Title:    "How should I approach seed investors?",
				Content:  "First-time founder, no warm intros.",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockSearch.indexCalls).To(Equal(1))
			Expect(producer.events).To(HaveLen(1))
			Expect(producer.events[0].Type).To(Equal(queue.EventQuestionPosted))
			Expect(*producer.events[0].QuestionID).To(Equal(q.ID))
		})

		It("still posts when the producer is down", func() {
			producer.enqueueFn = func(_ context.Context, _ queue.Event) error {
				return errors.New("redis unreachable")
			}

			_, err := svc.Post(ctx, service.PostQuestionParams{
				AuthorID: 1,
				Title:    "How should I approach seed investors?",
				Content:  "First-time founder, no warm intros.",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockQuestions.createCalls).To(Equal(1))
		})
	})

	Describe("Feed", func() {
		It("returns an empty matched feed for users with no declared expertise", func() {
			questions, err := svc.Feed(ctx, 1, service.ViewMatched, "", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(BeEmpty())
		})

		It("matches against the user's expertise tags", func() {
			mockExpertise.listByUserFn = func(_ context.Context, _ int64) ([]model.Expertise, error) {
				return []model.Expertise{{Tag: "fundraising"}, {Tag: "hiring"}}, nil
			}
			mockQuestions.listMatchedFn = func(_ context.Context, tags []string, excludeAuthorID int64, _ int32) ([]model.Question, error) {
				Expect(tags).To(Equal([]string{"fundraising", "hiring"}))
				Expect(excludeAuthorID).To(Equal(int64(1)))
				return []model.Question{{ID: 7}}, nil
			}

			questions, err := svc.Feed(ctx, 1, service.ViewMatched, "", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
		})

		It("serves the demo dataset when demo mode is requested", func() {
			mockQuestions.listDemoFn = func(_ context.Context, _ int32) ([]model.Question, error) {
				return []model.Question{{ID: 1001, IsDemo: true}}, nil
			}

			questions, err := svc.Feed(ctx, 1, service.ViewAll, "", true)

			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
			Expect(questions[0].IsDemo).To(BeTrue())
		})

		It("resolves explore topics through the search backend", func() {
			mockSearch.searchFn = func(_ context.Context, query string, _ int) ([]int64, error) {
				Expect(query).To(Equal("fundraising"))
				return []int64{7}, nil
			}
			mockQuestions.getByIDFn = func(_ context.Context, id int64) (*model.Question, error) {
				return &model.Question{ID: id}, nil
			}

			questions, err := svc.Feed(ctx, 1, service.ViewExplore, "fundraising", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
			Expect(questions[0].ID).To(Equal(int64(7)))
		})

		It("falls back to SQL topic search when the search backend errors", func() {
			mockSearch.searchFn = func(_ context.Context, _ string, _ int) ([]int64, error) {
				return nil, errors.New("typesense down")
			}
			mockQuestions.searchTopicsFn = func(_ context.Context, topic string, _ int32) ([]model.Question, error) {
				Expect(topic).To(Equal("fundraising"))
				return []model.Question{{ID: 8}}, nil
			}

			questions, err := svc.Feed(ctx, 1, service.ViewExplore, "fundraising", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(questions).To(HaveLen(1))
			Expect(questions[0].ID).To(Equal(int64(8)))
		})
	})

	Describe("Respond", func() {
		It("returns ErrQuestionNotFound for a missing question", func() {
			_, err := svc.Respond(ctx, service.PostResponseParams{QuestionID: 99, ResponderID: 1, Content: "hi"})

			Expect(err).To(MatchError(service.ErrQuestionNotFound))
		})

		It("defaults the source to human and emits a response event", func() {
			mockQuestions.getByIDFn = func(_ context.Context, id int64) (*model.Question, error) {
				return &model.Question{ID: id}, nil
			}

			r, err := svc.Respond(ctx, service.PostResponseParams{QuestionID: 7, ResponderID: 2, Content: "try SAFEs"})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.SourceType).To(Equal(model.ResponseSourceHuman))
			Expect(producer.events).To(HaveLen(1))
			Expect(producer.events[0].Type).To(Equal(queue.EventResponsePosted))
			Expect(producer.events[0].UserID).To(Equal(int64(2)))
		})
	})

	Describe("Vote", func() {
		It("credits the responder, not the voter, in the emitted event", func() {
			mockResponses.voteFn = func(_ context.Context, id int64, helpful bool) (*model.Response, error) {
				Expect(helpful).To(BeTrue())
				return &model.Response{ID: id, QuestionID: 7, ResponderID: 2, HelpfulVotes: 1}, nil
			}

			_, err := svc.Vote(ctx, 30, 9, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(producer.events).To(HaveLen(1))
			evt := producer.events[0]
			Expect(evt.Type).To(Equal(queue.EventVoteCast))
			Expect(evt.UserID).To(Equal(int64(2)))
			Expect(*evt.Helpful).To(BeTrue())
		})
	})

	Describe("SeedDemo", func() {
		It("inserts the dataset on an empty table", func() {
			seeded, err := svc.SeedDemo(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(seeded).To(Equal(3))
			Expect(mockQuestions.createCalls).To(Equal(3))
			Expect(mockResponses.createCalls).To(Equal(3))
		})

		It("reseeds the same fixed rows, never new ones", func() {
			rows := map[int64]int{}
			mockQuestions.createFn = func(_ context.Context, q *model.Question) error {
				rows[q.ID]++
				return nil
			}

			_, err := svc.SeedDemo(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.SeedDemo(ctx)
			Expect(err).NotTo(HaveOccurred())

			// Fixed ids make the second pass a pure upsert of the first.
			Expect(rows).To(HaveLen(3))
			for _, hits := range rows {
				Expect(hits).To(Equal(2))
			}
		})

		It("completes a partial seed on retry", func() {
			failing := true
			mockQuestions.createFn = func(_ context.Context, q *model.Question) error {
				if failing && mockQuestions.createCalls > 1 {
					return errors.New("connection reset")
				}
				return nil
			}

			seeded, err := svc.SeedDemo(ctx)
			Expect(err).To(HaveOccurred())
			Expect(seeded).To(Equal(1))

			failing = false
			seeded, err = svc.SeedDemo(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(seeded).To(Equal(3))
		})
	})
})
