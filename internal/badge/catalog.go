package badge

import "nthora.app/server/internal/model"

// Catalog is the static badge set. It ships with the binary; only the
// earned projection is persisted.
var Catalog = []model.BadgeDef{
	{
		ID:          "first-question",
		Name:        "Curious Mind",
		Description: "Ask your first question",
		Category:    "questions",
		Tier:        model.BadgeTierBronze,
		Rarity:      model.BadgeRarityCommon,
		Metric:      model.MetricQuestionsAsked,
		Target:      1,
	},
	{
		ID:          "question-streak",
		Name:        "Serial Asker",
		Description: "Ask 10 questions",
		Category:    "questions",
		Tier:        model.BadgeTierSilver,
		Rarity:      model.BadgeRarityUncommon,
		Metric:      model.MetricQuestionsAsked,
		Target:      10,
		Rewards:     []string{"profile_flair"},
	},
	{
		ID:          "first-answer",
		Name:        "Helping Hand",
		Description: "Answer your first question",
		Category:    "answers",
		Tier:        model.BadgeTierBronze,
		Rarity:      model.BadgeRarityCommon,
		Metric:      model.MetricResponsesGiven,
		Target:      1,
	},
	{
		ID:          "trusted-advisor",
		Name:        "Trusted Advisor",
		Description: "Answer 25 questions",
		Category:    "answers",
		Tier:        model.BadgeTierGold,
		Rarity:      model.BadgeRarityRare,
		Metric:      model.MetricResponsesGiven,
		Target:      25,
		Rewards:     []string{"profile_flair", "priority_routing"},
	},
	{
		ID:          "crowd-favorite",
		Name:        "Crowd Favorite",
		Description: "Collect 10 helpful votes on your answers",
		Category:    "answers",
		Tier:        model.BadgeTierSilver,
		Rarity:      model.BadgeRarityUncommon,
		Metric:      model.MetricHelpfulVotes,
		Target:      10,
	},
	{
		ID:          "connector",
		Name:        "Connector",
		Description: "Bring 3 members into the network",
		Category:    "community",
		Tier:        model.BadgeTierSilver,
		Rarity:      model.BadgeRarityUncommon,
		Metric:      model.MetricMembersInvited,
		Target:      3,
		Rewards:     []string{"extra_invites"},
	},
	{
		ID:          "gatekeeper",
		Name:        "Gatekeeper",
		Description: "Approve 5 pending members",
		Category:    "community",
		Tier:        model.BadgeTierBronze,
		Rarity:      model.BadgeRarityCommon,
		Metric:      model.MetricApprovalsGiven,
		Target:      5,
	},
	{
		ID:          "polymath",
		Name:        "Polymath",
		Description: "Declare expertise in 5 areas",
		Category:    "expertise",
		Tier:        model.BadgeTierGold,
		Rarity:      model.BadgeRarityRare,
		Metric:      model.MetricExpertiseDeclared,
		Target:      5,
		Rewards:     []string{"profile_flair"},
	},
}

var catalogByID = func() map[string]model.BadgeDef {
	m := make(map[string]model.BadgeDef, len(Catalog))
	for _, def := range Catalog {
		m[def.ID] = def
	}
	return m
}()

// Lookup returns the catalog entry for id, if any.
func Lookup(id string) (model.BadgeDef, bool) {
	def, ok := catalogByID[id]
	return def, ok
}
