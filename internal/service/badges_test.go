package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/model"
	"nthora.app/server/internal/service"
	"nthora.app/server/internal/store"
)

var _ = Describe("BadgeService", func() {
	var (
		svc           service.BadgeService
		mockStats     *mockStatsStore
		mockExpertise *mockExpertiseStore
		ctx           context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockStats = &mockStatsStore{}
		mockExpertise = &mockExpertiseStore{}
		svc = service.NewBadgeService(mockStats, mockExpertise)
	})

	Describe("Summary", func() {
		It("treats a user with no stats row as all-zero", func() {
			summary, err := svc.Summary(ctx, 42)

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.RecentlyEarned).To(BeEmpty())
			Expect(summary.NextToEarn).NotTo(BeEmpty())
			for _, cand := range summary.NextToEarn {
				Expect(cand.Progress.Current).To(BeZero())
			}
		})

		It("separates earned from next-to-earn", func() {
			mockStats.getFn = func(_ context.Context, userID int64) (*model.UserStats, error) {
				return &model.UserStats{UserID: userID, QuestionsAsked: 4}, nil
			}
			mockStats.listEarnedFn = func(_ context.Context, userID int64) ([]model.EarnedBadge, error) {
				return []model.EarnedBadge{
					{UserID: userID, BadgeID: "first-question", EarnedAt: time.Now()},
				}, nil
			}

			summary, err := svc.Summary(ctx, 42)

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.RecentlyEarned).To(HaveLen(1))
			Expect(summary.RecentlyEarned[0].Def.ID).To(Equal("first-question"))
			for _, cand := range summary.NextToEarn {
				Expect(cand.Def.ID).NotTo(Equal("first-question"))
			}
		})

		It("recommends expertise badges only after expertise is declared", func() {
			summaryWithout, err := svc.Summary(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			for _, cand := range summaryWithout.Recommended {
				Expect(cand.Def.Category).NotTo(Equal("expertise"))
			}

			mockExpertise.listByUserFn = func(_ context.Context, _ int64) ([]model.Expertise, error) {
				return []model.Expertise{{Tag: "fundraising"}}, nil
			}

			summaryWith, err := svc.Summary(ctx, 42)
			Expect(err).NotTo(HaveOccurred())

			categories := make([]string, 0, len(summaryWith.Recommended))
			for _, cand := range summaryWith.Recommended {
				categories = append(categories, cand.Def.Category)
			}
			Expect(categories).To(ContainElement("expertise"))
		})

		It("propagates stats store failures other than not-found", func() {
			mockStats.getFn = func(_ context.Context, _ int64) (*model.UserStats, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.Summary(ctx, 42)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, store.ErrNotFound)).To(BeFalse())
		})
	})
})
