package service

import (
	"nthora.app/server/common/graph"
	"nthora.app/server/core/config"
	"nthora.app/server/internal/classify"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/search"
	"nthora.app/server/internal/store"
)

type Services struct {
	stores     *store.Stores
	txRunner   TxRunner
	workOSCfg  config.WorkOSConfig
	classifier *classify.Classifier
	searcher   search.Client // nil when Typesense is unconfigured
	graph      graph.Client  // nil when ArangoDB is unconfigured
	producer   queue.Producer
}

func NewServices(
	stores *store.Stores,
	txRunner TxRunner,
	workOSCfg config.WorkOSConfig,
	classifier *classify.Classifier,
	searcher search.Client,
	graphClient graph.Client,
	producer queue.Producer,
) *Services {
	return &Services{
		stores:     stores,
		txRunner:   txRunner,
		workOSCfg:  workOSCfg,
		classifier: classifier,
		searcher:   searcher,
		graph:      graphClient,
		producer:   producer,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.workOSCfg)
}

func (s *Services) Onboarding() OnboardingService {
	return NewOnboardingService(s.stores.Roster(), s.Auth(), s.Invites(), s.stores.Users(), s.Expertise(), s.producer)
}

func (s *Services) Invites() InviteService {
	return NewInviteService(s.stores.Invites(), s.stores.Memberships(), s.stores.Users(), s.txRunner, s.producer)
}

func (s *Services) Questions() QuestionService {
	return NewQuestionService(s.stores.Questions(), s.stores.Responses(), s.stores.Expertise(), s.classifier, s.searcher, s.producer)
}

func (s *Services) Activity() ActivityService {
	return NewActivityService(s.stores.Activity(), s.graph)
}

func (s *Services) Preferences() PreferencesService {
	return NewPreferencesService(s.stores.Preferences())
}

func (s *Services) Badges() BadgeService {
	return NewBadgeService(s.stores.Stats(), s.stores.Expertise())
}

func (s *Services) Expertise() ExpertiseService {
	return NewExpertiseService(s.stores.Expertise(), s.classifier, s.producer)
}
