package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/service"
)

var _ = Describe("ExpertiseService", func() {
	var (
		svc       service.ExpertiseService
		mockStore *mockExpertiseStore
		remote    *stubRemote
		producer  *mockProducer
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockStore = &mockExpertiseStore{}
		producer = &mockProducer{}
		remote = &stubRemote{fn: func(_ context.Context, _ classify.Kind, _ string) (classify.Classification, error) {
			return classify.Classification{Tags: []string{"fundraising", "hiring"}, Confidence: 0.75}, nil
		}}
		svc = service.NewExpertiseService(mockStore, classify.New(remote), producer)
	})

	Describe("Declare", func() {
		It("stores explicit tags with full confidence", func() {
			var captured []model.Expertise
			mockStore.upsertFn = func(_ context.Context, e *model.Expertise) (bool, error) {
				captured = append(captured, *e)
				return true, nil
			}

			declared, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID: 42,
				Tags:   []string{"Machine Learning", "pricing"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(declared).To(HaveLen(2))
			Expect(captured[0].Tag).To(Equal("machine-learning"))
			Expect(captured[0].ConfidenceScore).To(Equal(1.0))
			Expect(captured[1].Tag).To(Equal("pricing"))
		})

		It("classifies free text when no explicit tags are given", func() {
			declared, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID:   42,
				FreeText: "I help founders with fundraising and hiring",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(declared).To(HaveLen(2))
			Expect(declared[0].ConfidenceScore).To(Equal(0.75))
		})

		It("rejects empty input", func() {
			_, err := svc.Declare(ctx, service.DeclareExpertiseParams{UserID: 42, FreeText: "   "})

			Expect(err).To(MatchError(service.ErrEmptyExpertise))
		})

		It("defaults the weekly quota", func() {
			var captured *model.Expertise
			mockStore.upsertFn = func(_ context.Context, e *model.Expertise) (bool, error) {
				captured = e
				return true, nil
			}

			_, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID: 42,
				Tags:   []string{"pricing"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(captured.MaxQuestionsPerWeek).To(Equal(5))
			Expect(captured.Available).To(BeTrue())
		})

		It("skips tags that slugify to nothing", func() {
			declared, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID: 42,
				Tags:   []string{"!!!", "pricing"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(declared).To(HaveLen(1))
			Expect(declared[0].Tag).To(Equal("pricing"))
		})

		It("emits one declaration event counting the new tags", func() {
			_, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID: 42,
				Tags:   []string{"pricing", "sales"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(producer.events).To(HaveLen(1))
			Expect(producer.events[0].Type).To(Equal(queue.EventExpertiseDeclared))
			Expect(producer.events[0].UserID).To(Equal(int64(42)))
			Expect(producer.events[0].Delta).To(Equal(2))
		})

		It("does not count a re-declared tag", func() {
			mockStore.upsertFn = func(_ context.Context, _ *model.Expertise) (bool, error) {
				return false, nil
			}

			declared, err := svc.Declare(ctx, service.DeclareExpertiseParams{
				UserID: 42,
				Tags:   []string{"pricing"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(declared).To(HaveLen(1))
			Expect(producer.events).To(BeEmpty())
		})
	})
})
