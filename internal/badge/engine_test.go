package badge_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/badge"
	"nthora.app/server/internal/model"
)

var _ = Describe("Classify", func() {
	earned := func(badgeID string, at time.Time) model.EarnedBadge {
		return model.EarnedBadge{UserID: 1, BadgeID: badgeID, EarnedAt: at}
	}

	It("never lists an earned badge under next-to-earn", func() {
		stats := model.UserStats{QuestionsAsked: 1}
		summary := badge.Classify(stats, []model.EarnedBadge{
			earned("first-question", time.Now()),
		}, nil, 10)

		for _, cand := range summary.NextToEarn {
			Expect(cand.Def.ID).NotTo(Equal("first-question"))
		}
	})

	It("never lists an unearned badge under recently-earned", func() {
		summary := badge.Classify(model.UserStats{}, nil, nil, 10)

		Expect(summary.RecentlyEarned).To(BeEmpty())
	})

	It("orders recently earned newest first", func() {
		now := time.Now()
		summary := badge.Classify(model.UserStats{}, []model.EarnedBadge{
			earned("first-question", now.Add(-time.Hour)),
			earned("first-answer", now),
		}, nil, 10)

		Expect(summary.RecentlyEarned[0].Def.ID).To(Equal("first-answer"))
		Expect(summary.RecentlyEarned[1].Def.ID).To(Equal("first-question"))
	})

	It("orders next-to-earn by progress percentage", func() {
		stats := model.UserStats{QuestionsAsked: 9, ResponsesGiven: 1}
		summary := badge.Classify(stats, []model.EarnedBadge{
			earned("first-question", time.Now()),
			earned("first-answer", time.Now()),
		}, nil, 10)

		// 9/10 questions beats 1/25 answers.
		Expect(summary.NextToEarn[0].Def.ID).To(Equal("question-streak"))
	})

	It("caps both lists at the requested size", func() {
		now := time.Now()
		summary := badge.Classify(model.UserStats{}, []model.EarnedBadge{
			earned("first-question", now),
			earned("first-answer", now),
			earned("connector", now),
			earned("gatekeeper", now),
		}, nil, 3)

		Expect(summary.RecentlyEarned).To(HaveLen(3))
		Expect(summary.NextToEarn).To(HaveLen(3))
	})

	It("recommends only badges in the declared categories", func() {
		summary := badge.Classify(model.UserStats{}, nil, []string{"expertise"}, 10)

		Expect(summary.Recommended).NotTo(BeEmpty())
		for _, cand := range summary.Recommended {
			Expect(cand.Def.Category).To(Equal("expertise"))
		}
	})
})

var _ = Describe("Progress", func() {
	It("caps current at the target", func() {
		def, ok := badge.Lookup("question-streak")
		Expect(ok).To(BeTrue())

		p := badge.Progress(def, model.UserStats{QuestionsAsked: 40})

		Expect(p.Current).To(Equal(10))
		Expect(p.Percentage).To(Equal(100.0))
	})

	It("reports partial progress", func() {
		def, ok := badge.Lookup("trusted-advisor")
		Expect(ok).To(BeTrue())

		p := badge.Progress(def, model.UserStats{ResponsesGiven: 5})

		Expect(p.Current).To(Equal(5))
		Expect(p.Target).To(Equal(25))
		Expect(p.Percentage).To(Equal(20.0))
	})
})

var _ = Describe("NewlyMet", func() {
	It("returns requirements the snapshot satisfies but the earned set lacks", func() {
		stats := model.UserStats{QuestionsAsked: 10}

		met := badge.NewlyMet(stats, nil)

		ids := make([]string, 0, len(met))
		for _, def := range met {
			ids = append(ids, def.ID)
		}
		Expect(ids).To(ConsistOf("first-question", "question-streak"))
	})

	It("skips badges already earned", func() {
		stats := model.UserStats{QuestionsAsked: 10}
		have := []model.EarnedBadge{{BadgeID: "first-question", EarnedAt: time.Now()}}

		met := badge.NewlyMet(stats, have)

		Expect(met).To(HaveLen(1))
		Expect(met[0].ID).To(Equal("question-streak"))
	})

	It("returns nothing for a zero snapshot", func() {
		Expect(badge.NewlyMet(model.UserStats{}, nil)).To(BeEmpty())
	})
})
