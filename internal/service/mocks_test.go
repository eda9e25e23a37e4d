package service_test

import (
	"context"

	"nthora.app/server/common/graph"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/queue"
	"nthora.app/server/internal/service"
	"nthora.app/server/internal/store"
)

type mockUserStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	upsertFn     func(ctx context.Context, user *model.User) error
	updateFn     func(ctx context.Context, user *model.User) error
	markMemberFn func(ctx context.Context, id int64) error

	markMemberCalls int
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Upsert(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) MarkMember(ctx context.Context, id int64) error {
	m.markMemberCalls++
	if m.markMemberFn != nil {
		return m.markMemberFn(ctx, id)
	}
	return nil
}

type mockQuestionStore struct {
	createFn         func(ctx context.Context, q *model.Question) error
	getByIDFn        func(ctx context.Context, id int64) (*model.Question, error)
	listAllFn        func(ctx context.Context, limit int32) ([]model.Question, error)
	listByAuthorFn   func(ctx context.Context, authorID int64, limit int32) ([]model.Question, error)
	listMatchedFn    func(ctx context.Context, tags []string, excludeAuthorID int64, limit int32) ([]model.Question, error)
	searchTopicsFn   func(ctx context.Context, topic string, limit int32) ([]model.Question, error)
	listDemoFn       func(ctx context.Context, limit int32) ([]model.Question, error)
	setStatusFn      func(ctx context.Context, id int64, status model.QuestionStatus) error
	incrementViewsFn func(ctx context.Context, id int64) error

	createCalls int
}

func (m *mockQuestionStore) Create(ctx context.Context, q *model.Question) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, q)
	}
	return nil
}

func (m *mockQuestionStore) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockQuestionStore) ListAll(ctx context.Context, limit int32) ([]model.Question, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, limit)
	}
	return []model.Question{}, nil
}

func (m *mockQuestionStore) ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Question, error) {
	if m.listByAuthorFn != nil {
		return m.listByAuthorFn(ctx, authorID, limit)
	}
	return []model.Question{}, nil
}

func (m *mockQuestionStore) ListMatched(ctx context.Context, tags []string, excludeAuthorID int64, limit int32) ([]model.Question, error) {
	if m.listMatchedFn != nil {
		return m.listMatchedFn(ctx, tags, excludeAuthorID, limit)
	}
	return []model.Question{}, nil
}

func (m *mockQuestionStore) SearchTopics(ctx context.Context, topic string, limit int32) ([]model.Question, error) {
	if m.searchTopicsFn != nil {
		return m.searchTopicsFn(ctx, topic, limit)
	}
	return []model.Question{}, nil
}

func (m *mockQuestionStore) ListDemo(ctx context.Context, limit int32) ([]model.Question, error) {
	if m.listDemoFn != nil {
		return m.listDemoFn(ctx, limit)
	}
	return []model.Question{}, nil
}

func (m *mockQuestionStore) SetStatus(ctx context.Context, id int64, status model.QuestionStatus) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockQuestionStore) IncrementViews(ctx context.Context, id int64) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id)
	}
	return nil
}

type mockResponseStore struct {
	createFn         func(ctx context.Context, r *model.Response) error
	getByIDFn        func(ctx context.Context, id int64) (*model.Response, error)
	listByQuestionFn func(ctx context.Context, questionID int64) ([]model.Response, error)
	voteFn           func(ctx context.Context, id int64, helpful bool) (*model.Response, error)

	createCalls int
}

func (m *mockResponseStore) Create(ctx context.Context, r *model.Response) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockResponseStore) GetByID(ctx context.Context, id int64) (*model.Response, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockResponseStore) ListByQuestion(ctx context.Context, questionID int64) ([]model.Response, error) {
	if m.listByQuestionFn != nil {
		return m.listByQuestionFn(ctx, questionID)
	}
	return []model.Response{}, nil
}

func (m *mockResponseStore) Vote(ctx context.Context, id int64, helpful bool) (*model.Response, error) {
	if m.voteFn != nil {
		return m.voteFn(ctx, id, helpful)
	}
	return nil, store.ErrNotFound
}

type mockExpertiseStore struct {
	upsertFn              func(ctx context.Context, e *model.Expertise) (bool, error)
	listByUserFn          func(ctx context.Context, userID int64) ([]model.Expertise, error)
	listAvailableByTagsFn func(ctx context.Context, tags []string) ([]model.Expertise, error)

	upsertCalls int
}

func (m *mockExpertiseStore) Upsert(ctx context.Context, e *model.Expertise) (bool, error) {
	m.upsertCalls++
	if m.upsertFn != nil {
		return m.upsertFn(ctx, e)
	}
	return true, nil
}

func (m *mockExpertiseStore) ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Expertise{}, nil
}

func (m *mockExpertiseStore) ListAvailableByTags(ctx context.Context, tags []string) ([]model.Expertise, error) {
	if m.listAvailableByTagsFn != nil {
		return m.listAvailableByTagsFn(ctx, tags)
	}
	return []model.Expertise{}, nil
}

func (m *mockExpertiseStore) IncrementWeekCount(ctx context.Context, id int64) error {
	return nil
}

func (m *mockExpertiseStore) ResetStaleWeeks(ctx context.Context) error {
	return nil
}

type mockInviteStore struct {
	createFn        func(ctx context.Context, inv *model.InviteCode) error
	getByCodeFn     func(ctx context.Context, code string) (*model.InviteCode, error)
	getByIDFn       func(ctx context.Context, id int64) (*model.InviteCode, error)
	incrementUsesFn func(ctx context.Context, id int64) (*model.InviteCode, error)
	deactivateFn    func(ctx context.Context, id int64) (*model.InviteCode, error)
	listFn          func(ctx context.Context, limit, offset int32) ([]model.InviteCode, error)

	incrementCalls int
}

func (m *mockInviteStore) Create(ctx context.Context, inv *model.InviteCode) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInviteStore) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) GetByID(ctx context.Context, id int64) (*model.InviteCode, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) IncrementUses(ctx context.Context, id int64) (*model.InviteCode, error) {
	m.incrementCalls++
	if m.incrementUsesFn != nil {
		return m.incrementUsesFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) Deactivate(ctx context.Context, id int64) (*model.InviteCode, error) {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.InviteCode{}, nil
}

type mockMembershipStore struct {
	createPendingFn    func(ctx context.Context, pm *model.PendingMember) error
	getPendingFn       func(ctx context.Context, id int64) (*model.PendingMember, error)
	getPendingByUserFn func(ctx context.Context, userID int64) (*model.PendingMember, error)
	addApprovalFn      func(ctx context.Context, approval *model.MemberApproval) (*model.PendingMember, error)
	promoteFn          func(ctx context.Context, id int64) (*model.PendingMember, error)
	listPendingFn      func(ctx context.Context) ([]model.PendingMember, error)

	promoteCalls int
}

func (m *mockMembershipStore) CreatePending(ctx context.Context, pm *model.PendingMember) error {
	if m.createPendingFn != nil {
		return m.createPendingFn(ctx, pm)
	}
	return nil
}

func (m *mockMembershipStore) GetPending(ctx context.Context, id int64) (*model.PendingMember, error) {
	if m.getPendingFn != nil {
		return m.getPendingFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) GetPendingByUser(ctx context.Context, userID int64) (*model.PendingMember, error) {
	if m.getPendingByUserFn != nil {
		return m.getPendingByUserFn(ctx, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) AddApproval(ctx context.Context, approval *model.MemberApproval) (*model.PendingMember, error) {
	if m.addApprovalFn != nil {
		return m.addApprovalFn(ctx, approval)
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) Promote(ctx context.Context, id int64) (*model.PendingMember, error) {
	m.promoteCalls++
	if m.promoteFn != nil {
		return m.promoteFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) ListPending(ctx context.Context) ([]model.PendingMember, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx)
	}
	return []model.PendingMember{}, nil
}

type mockStatsStore struct {
	getFn          func(ctx context.Context, userID int64) (*model.UserStats, error)
	incrementFn    func(ctx context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error)
	listEarnedFn   func(ctx context.Context, userID int64) ([]model.EarnedBadge, error)
	insertEarnedFn func(ctx context.Context, userID int64, badgeID string) (bool, error)
}

func (m *mockStatsStore) Get(ctx context.Context, userID int64) (*model.UserStats, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockStatsStore) Increment(ctx context.Context, userID int64, metric model.StatMetric, delta int) (*model.UserStats, error) {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID, metric, delta)
	}
	return &model.UserStats{UserID: userID}, nil
}

func (m *mockStatsStore) ListEarned(ctx context.Context, userID int64) ([]model.EarnedBadge, error) {
	if m.listEarnedFn != nil {
		return m.listEarnedFn(ctx, userID)
	}
	return []model.EarnedBadge{}, nil
}

func (m *mockStatsStore) InsertEarned(ctx context.Context, userID int64, badgeID string) (bool, error) {
	if m.insertEarnedFn != nil {
		return m.insertEarnedFn(ctx, userID, badgeID)
	}
	return true, nil
}

type mockActivityStore struct {
	listForAuthorsFn func(ctx context.Context, authorIDs []int64, limit int32) ([]model.ActivityItem, error)
}

func (m *mockActivityStore) ListForAuthors(ctx context.Context, authorIDs []int64, limit int32) ([]model.ActivityItem, error) {
	if m.listForAuthorsFn != nil {
		return m.listForAuthorsFn(ctx, authorIDs, limit)
	}
	return []model.ActivityItem{}, nil
}

type mockPreferencesStore struct {
	getFn func(ctx context.Context, userID int64) (map[string]any, error)
	putFn func(ctx context.Context, userID int64, doc map[string]any) error
}

func (m *mockPreferencesStore) Get(ctx context.Context, userID int64) (map[string]any, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockPreferencesStore) Put(ctx context.Context, userID int64, doc map[string]any) error {
	if m.putFn != nil {
		return m.putFn(ctx, userID, doc)
	}
	return nil
}

type mockRosterStore struct {
	containsFn func(ctx context.Context, email string) (bool, error)
}

func (m *mockRosterStore) Contains(ctx context.Context, email string) (bool, error) {
	if m.containsFn != nil {
		return m.containsFn(ctx, email)
	}
	return false, nil
}

func (m *mockRosterStore) Add(ctx context.Context, email string) error {
	return nil
}

// mockStoreProvider hands back the same mocks inside and outside the
// transaction, which is all the unit tests need.
type mockStoreProvider struct {
	users       store.UserStore
	invites     store.InviteStore
	memberships store.MembershipStore
	questions   store.QuestionStore
	responses   store.ResponseStore
	stats       store.StatsStore
}

func (p *mockStoreProvider) Users() store.UserStore             { return p.users }
func (p *mockStoreProvider) Invites() store.InviteStore         { return p.invites }
func (p *mockStoreProvider) Memberships() store.MembershipStore { return p.memberships }
func (p *mockStoreProvider) Questions() store.QuestionStore     { return p.questions }
func (p *mockStoreProvider) Responses() store.ResponseStore     { return p.responses }
func (p *mockStoreProvider) Stats() store.StatsStore            { return p.stats }

type mockTxRunner struct {
	provider *mockStoreProvider
	txCalls  int
}

func (r *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	r.txCalls++
	return fn(r.provider)
}

type mockProducer struct {
	enqueueFn func(ctx context.Context, evt queue.Event) error
	events    []queue.Event
}

func (m *mockProducer) Enqueue(ctx context.Context, evt queue.Event) error {
	m.events = append(m.events, evt)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, evt)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

type mockGraphClient struct {
	networkUserIDsFn func(ctx context.Context, userID int64, maxDegree int) ([]graph.Member, error)
}

func (m *mockGraphClient) EnsureDatabase(ctx context.Context) error    { return nil }
func (m *mockGraphClient) EnsureCollections(ctx context.Context) error { return nil }
func (m *mockGraphClient) EnsureGraph(ctx context.Context) error       { return nil }
func (m *mockGraphClient) UpsertMember(ctx context.Context, userID int64) error {
	return nil
}
func (m *mockGraphClient) Connect(ctx context.Context, conn graph.Connection) error { return nil }

func (m *mockGraphClient) NetworkUserIDs(ctx context.Context, userID int64, maxDegree int) ([]graph.Member, error) {
	if m.networkUserIDsFn != nil {
		return m.networkUserIDsFn(ctx, userID, maxDegree)
	}
	return []graph.Member{}, nil
}

func (m *mockGraphClient) Close() error { return nil }

type mockSearchClient struct {
	searchFn func(ctx context.Context, query string, limit int) ([]int64, error)
	indexFn  func(ctx context.Context, q *model.Question) error

	indexCalls int
}

func (m *mockSearchClient) EnsureCollection(ctx context.Context) error { return nil }

func (m *mockSearchClient) Index(ctx context.Context, q *model.Question) error {
	m.indexCalls++
	if m.indexFn != nil {
		return m.indexFn(ctx, q)
	}
	return nil
}

func (m *mockSearchClient) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []int64{}, nil
}

type mockAuthService struct {
	sendCodeFn   func(ctx context.Context, email string) error
	verifyCodeFn func(ctx context.Context, email, code string) (*model.User, *model.Session, error)

	sendCodeCalls int
}

func (m *mockAuthService) SendCode(ctx context.Context, email string) error {
	m.sendCodeCalls++
	if m.sendCodeFn != nil {
		return m.sendCodeFn(ctx, email)
	}
	return nil
}

func (m *mockAuthService) VerifyCode(ctx context.Context, email, code string) (*model.User, *model.Session, error) {
	if m.verifyCodeFn != nil {
		return m.verifyCodeFn(ctx, email, code)
	}
	return nil, nil, service.ErrInvalidOTP
}

func (m *mockAuthService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	return nil, service.ErrSessionExpired
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID int64) error { return nil }

type mockInviteService struct {
	validateFn func(ctx context.Context, code string) (*model.InviteCode, error)
	redeemFn   func(ctx context.Context, code string, userID int64) (*model.PendingMember, error)

	redeemCalls int
}

func (m *mockInviteService) Create(ctx context.Context, params service.CreateInviteParams) (*model.InviteCode, error) {
	return nil, nil
}

func (m *mockInviteService) Validate(ctx context.Context, code string) (*model.InviteCode, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, code)
	}
	return nil, service.ErrInviteNotFound
}

func (m *mockInviteService) Redeem(ctx context.Context, code string, userID int64) (*model.PendingMember, error) {
	m.redeemCalls++
	if m.redeemFn != nil {
		return m.redeemFn(ctx, code, userID)
	}
	return &model.PendingMember{UserID: userID}, nil
}

func (m *mockInviteService) Approve(ctx context.Context, pendingMemberID, approverID int64, reason *string) (*model.PendingMember, error) {
	return nil, nil
}

func (m *mockInviteService) Deactivate(ctx context.Context, inviteID int64) (*model.InviteCode, error) {
	return nil, nil
}

func (m *mockInviteService) List(ctx context.Context, limit, offset int32) ([]model.InviteCode, error) {
	return []model.InviteCode{}, nil
}

func (m *mockInviteService) ListPending(ctx context.Context) ([]model.PendingMember, error) {
	return []model.PendingMember{}, nil
}

type mockExpertiseService struct {
	declareFn func(ctx context.Context, params service.DeclareExpertiseParams) ([]model.Expertise, error)

	declareCalls int
}

func (m *mockExpertiseService) Declare(ctx context.Context, params service.DeclareExpertiseParams) ([]model.Expertise, error) {
	m.declareCalls++
	if m.declareFn != nil {
		return m.declareFn(ctx, params)
	}
	return []model.Expertise{}, nil
}

func (m *mockExpertiseService) ListByUser(ctx context.Context, userID int64) ([]model.Expertise, error) {
	return []model.Expertise{}, nil
}
