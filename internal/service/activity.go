package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"nthora.app/server/common/graph"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/store"
)

var ErrGraphUnavailable = errors.New("connection graph is not configured")

type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortPopular  SortOrder = "popular"
	SortRelevant SortOrder = "relevant"
)

type ActivityFilter string

const (
	FilterAll       ActivityFilter = "all"
	FilterQuestions ActivityFilter = "questions"
	FilterAnswers   ActivityFilter = "answers"
)

type FeedOptions struct {
	MaxDegree int
	Limit     int32
	Search    string
	Type      ActivityFilter
	Degree    *int // exact-degree filter; nil means any
	ShowTags  []string
	HideTags  []string
	Sort      SortOrder
}

type FeedAggregates struct {
	Contributors  int `json:"contributors"`
	QuestionCount int `json:"question_count"`
	AnswerCount   int `json:"answer_count"`
}

type ActivityFeed struct {
	Items      []model.ActivityItem `json:"items"`
	Aggregates FeedAggregates       `json:"aggregates"`
}

type ActivityService interface {
	Feed(ctx context.Context, userID int64, opts FeedOptions) (*ActivityFeed, error)
	NetworkMembers(ctx context.Context, userID int64, maxDegree int) ([]graph.Member, error)
}

type activityService struct {
	activityStore store.ActivityStore
	graph         graph.Client
}

func NewActivityService(activityStore store.ActivityStore, graphClient graph.Client) ActivityService {
	return &activityService{
		activityStore: activityStore,
		graph:         graphClient,
	}
}

func (s *activityService) NetworkMembers(ctx context.Context, userID int64, maxDegree int) ([]graph.Member, error) {
	if s.graph == nil {
		return nil, ErrGraphUnavailable
	}
	if maxDegree <= 0 {
		maxDegree = 2
	}
	return s.graph.NetworkUserIDs(ctx, userID, maxDegree)
}

func (s *activityService) Feed(ctx context.Context, userID int64, opts FeedOptions) (*ActivityFeed, error) {
	members, err := s.NetworkMembers(ctx, userID, opts.MaxDegree)
	if err != nil {
		return nil, fmt.Errorf("resolving network: %w", err)
	}

	degreeByUser := make(map[int64]int, len(members))
	authorIDs := make([]int64, 0, len(members))
	for _, m := range members {
		degreeByUser[m.UserID] = m.Degree
		authorIDs = append(authorIDs, m.UserID)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	items, err := s.activityStore.ListForAuthors(ctx, authorIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}

	for i := range items {
		items[i].NetworkDegree = degreeByUser[items[i].AuthorID]
	}

	items = applyFilters(items, opts)
	sortItems(items, opts.Sort)

	return &ActivityFeed{
		Items:      items,
		Aggregates: aggregate(items),
	}, nil
}

// applyFilters runs the pipeline in a fixed order: free-text search, then
// activity type, then exact degree, then tag allow-list, then deny-list.
// The deny-list is a veto: it runs last and always wins.
func applyFilters(items []model.ActivityItem, opts FeedOptions) []model.ActivityItem {
	out := items

	if q := strings.TrimSpace(opts.Search); q != "" {
		out = filter(out, func(it model.ActivityItem) bool {
			return matchesSearch(it, q)
		})
	}

	switch opts.Type {
	case FilterQuestions:
		out = filter(out, func(it model.ActivityItem) bool { return it.Type == model.ActivityTypeQuestion })
	case FilterAnswers:
		out = filter(out, func(it model.ActivityItem) bool { return it.Type == model.ActivityTypeAnswer })
	}

	if opts.Degree != nil {
		want := *opts.Degree
		out = filter(out, func(it model.ActivityItem) bool { return it.NetworkDegree == want })
	}

	if len(opts.ShowTags) > 0 {
		out = filter(out, func(it model.ActivityItem) bool {
			return hasAnyTag(it.Tags, opts.ShowTags)
		})
	}

	if len(opts.HideTags) > 0 {
		out = filter(out, func(it model.ActivityItem) bool {
			return !hasAnyTag(it.Tags, opts.HideTags)
		})
	}

	return out
}

func filter(items []model.ActivityItem, keep func(model.ActivityItem) bool) []model.ActivityItem {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func matchesSearch(it model.ActivityItem, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Content), q) ||
		strings.Contains(strings.ToLower(it.AuthorName), q) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// hasAnyTag is a case-insensitive substring match in either direction,
// so "fund" matches "fundraising" and vice versa.
func hasAnyTag(tags, wanted []string) bool {
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		for _, w := range wanted {
			lw := strings.ToLower(w)
			if strings.Contains(lt, lw) || strings.Contains(lw, lt) {
				return true
			}
		}
	}
	return false
}

// popularScore weights answers over votes.
func popularScore(it model.ActivityItem) int {
	return it.ResponseCount*2 + it.HelpfulVotes
}

func sortItems(items []model.ActivityItem, order SortOrder) {
	switch order {
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			return popularScore(items[i]) > popularScore(items[j])
		})
	case SortRelevant:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].NetworkDegree < items[j].NetworkDegree
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}

func aggregate(items []model.ActivityItem) FeedAggregates {
	contributors := make(map[int64]struct{}, len(items))
	agg := FeedAggregates{}
	for _, it := range items {
		contributors[it.AuthorID] = struct{}{}
		switch it.Type {
		case model.ActivityTypeQuestion:
			agg.QuestionCount++
		case model.ActivityTypeAnswer:
			agg.AnswerCount++
		}
	}
	agg.Contributors = len(contributors)
	return agg
}
