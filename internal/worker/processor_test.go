package worker_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/worker"
)

var _ = Describe("StatsProcessor", func() {
	var (
		processor worker.EventProcessor
		stats     *mockStatsStore
		sp        *mockStoreProvider
		ctx       context.Context
	)

	boolPtr := func(b bool) *bool { return &b }

	BeforeEach(func() {
		ctx = context.Background()
		stats = &mockStatsStore{}
		sp = &mockStoreProvider{
			stats:       stats,
			memberships: &mockMembershipStore{},
			invites:     &mockInviteStore{},
		}
		processor = worker.NewStatsProcessor()
	})

	Describe("Process", func() {
		It("increments questions asked on a question event", func() {
			var gotMetric model.StatMetric
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
				gotMetric = metric
				Expect(delta).To(Equal(1))
				return &model.UserStats{UserID: userID, QuestionsAsked: 1}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventQuestionPosted, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotMetric).To(Equal(model.MetricQuestionsAsked))
		})

		It("increments responses given on a response event", func() {
			var gotMetric model.StatMetric
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, _ int) (*model.UserStats, error) {
				gotMetric = metric
				return &model.UserStats{UserID: userID}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventResponsePosted, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotMetric).To(Equal(model.MetricResponsesGiven))
		})

		It("counts only helpful votes", func() {
			err := processor.Process(ctx, queue.Message{
				Type:    queue.EventVoteCast,
				UserID:  42,
				Helpful: boolPtr(false),
			}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.incrementCalls).To(BeZero())

			err = processor.Process(ctx, queue.Message{
				Type:    queue.EventVoteCast,
				UserID:  42,
				Helpful: boolPtr(true),
			}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.incrementCalls).To(Equal(1))
		})

		It("increments approvals given on an approval event", func() {
			var gotMetric model.StatMetric
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
				gotMetric = metric
				Expect(delta).To(Equal(1))
				return &model.UserStats{UserID: userID, ApprovalsGiven: 1}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventApprovalGiven, UserID: 7}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotMetric).To(Equal(model.MetricApprovalsGiven))
		})

		It("increments expertise declared by the event delta", func() {
			var gotDelta int
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
				gotDelta = delta
				Expect(metric).To(Equal(model.MetricExpertiseDeclared))
				return &model.UserStats{UserID: userID, ExpertiseDeclared: delta}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventExpertiseDeclared, UserID: 42, Delta: 3}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotDelta).To(Equal(3))
		})

		It("rejects unknown event types", func() {
			err := processor.Process(ctx, queue.Message{Type: "question_deleted", UserID: 42}, sp)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("badge awards", func() {
		It("awards the badge whose requirement the new snapshot meets", func() {
			stats.incrementFn = func(_ context.Context, userID int64, _ model.StatMetric, _ int) (*model.UserStats, error) {
				return &model.UserStats{UserID: userID, QuestionsAsked: 1}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventQuestionPosted, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.insertedBadges).To(ConsistOf("first-question"))
		})

		It("does not re-award a badge already earned", func() {
			stats.incrementFn = func(_ context.Context, userID int64, _ model.StatMetric, _ int) (*model.UserStats, error) {
				return &model.UserStats{UserID: userID, QuestionsAsked: 2}, nil
			}
			stats.listEarnedFn = func(_ context.Context, userID int64) ([]model.EarnedBadge, error) {
				return []model.EarnedBadge{
					{UserID: userID, BadgeID: "first-question", EarnedAt: time.Now()},
				}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventQuestionPosted, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.insertedBadges).To(BeEmpty())
		})

		It("awards gatekeeper at five approvals and polymath at five tags", func() {
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
				return &model.UserStats{UserID: userID, ApprovalsGiven: 5, ExpertiseDeclared: 5}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventApprovalGiven, UserID: 7}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.insertedBadges).To(ConsistOf("gatekeeper", "polymath"))
		})

		It("tolerates a concurrent award losing the insert race", func() {
			stats.incrementFn = func(_ context.Context, userID int64, _ model.StatMetric, _ int) (*model.UserStats, error) {
				return &model.UserStats{UserID: userID, QuestionsAsked: 1}, nil
			}
			stats.insertEarnedFn = func(_ context.Context, _ int64, _ string) (bool, error) {
				return false, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventQuestionPosted, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("join events", func() {
		It("credits the invite creator when a pending member joins", func() {
			inviteID := int64(900)
			sp.memberships.getPendingByUserFn = func(_ context.Context, userID int64) (*model.PendingMember, error) {
				return &model.PendingMember{ID: 5, UserID: userID, InviteID: &inviteID}, nil
			}
			sp.invites.getByIDFn = func(_ context.Context, id int64) (*model.InviteCode, error) {
				return &model.InviteCode{ID: id, CreatedBy: 7}, nil
			}

			var creditedUser int64
			var gotMetric model.StatMetric
			stats.incrementFn = func(_ context.Context, userID int64, metric model.StatMetric, _ int) (*model.UserStats, error) {
				creditedUser = userID
				gotMetric = metric
				return &model.UserStats{UserID: userID}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventUserJoined, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(creditedUser).To(Equal(int64(7)))
			Expect(gotMetric).To(Equal(model.MetricMembersInvited))
		})

		It("ignores early-access joins with no pending membership", func() {
			err := processor.Process(ctx, queue.Message{Type: queue.EventUserJoined, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.incrementCalls).To(BeZero())
		})

		It("ignores pending memberships without an invite", func() {
			sp.memberships.getPendingByUserFn = func(_ context.Context, userID int64) (*model.PendingMember, error) {
				return &model.PendingMember{ID: 5, UserID: userID}, nil
			}

			err := processor.Process(ctx, queue.Message{Type: queue.EventUserJoined, UserID: 42}, sp)

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.incrementCalls).To(BeZero())
		})
	})
})
