package store

import (
	"nthora.app/server/core/db"
)

type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return &userStore{q: s.q}
}

func (s *Stores) Sessions() SessionStore {
	return &sessionStore{q: s.q}
}

func (s *Stores) Questions() QuestionStore {
	return &questionStore{q: s.q}
}

func (s *Stores) Responses() ResponseStore {
	return &responseStore{q: s.q}
}

func (s *Stores) Expertise() ExpertiseStore {
	return &expertiseStore{q: s.q}
}

func (s *Stores) Invites() InviteStore {
	return &inviteStore{q: s.q}
}

func (s *Stores) Memberships() MembershipStore {
	return &membershipStore{q: s.q}
}

func (s *Stores) Preferences() PreferencesStore {
	return &preferencesStore{q: s.q}
}

func (s *Stores) Stats() StatsStore {
	return &statsStore{q: s.q}
}

func (s *Stores) Activity() ActivityStore {
	return &activityStore{q: s.q}
}

func (s *Stores) Roster() RosterStore {
	return &rosterStore{q: s.q}
}
