package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nthora.app/server/internal/model"
	"nthora.app/server/internal/store"
)

// defaultPreferences is the complete document every stored partial is
// resolved against. Arrays are replaced wholesale on merge, never unioned.
func defaultPreferences() map[string]any {
	return map[string]any{
		"networkFeed": map[string]any{
			"maxDegree":          2,
			"sortOrder":          "newest",
			"activityTypes":      "all",
			"showTags":           []any{"fundraising", "hiring", "product", "engineering"},
			"hideTags":           []any{},
			"autoRefresh":        true,
			"refreshIntervalSec": 120,
			"resultLimit":        50,
		},
		"notifications": map[string]any{
			"emailOnMatch":    true,
			"emailOnResponse": true,
			"emailDigest":     false,
		},
		"privacy": map[string]any{
			"showProfileToDegree": 2,
			"discoverableByEmail": true,
		},
		"expertise": map[string]any{
			"autoSuggestTags": true,
			"weeklyQuota":     5,
		},
	}
}

type PreferencesService interface {
	Get(ctx context.Context, userID int64) (model.Preferences, error)
	Put(ctx context.Context, userID int64, doc map[string]any) (model.Preferences, error)
	// Resolve merges a stored partial document over the defaults. Total:
	// any input, including nil, yields a complete Preferences value.
	Resolve(stored map[string]any) model.Preferences
}

type preferencesService struct {
	prefStore store.PreferencesStore
}

func NewPreferencesService(prefStore store.PreferencesStore) PreferencesService {
	return &preferencesService{prefStore: prefStore}
}

func (s *preferencesService) Get(ctx context.Context, userID int64) (model.Preferences, error) {
	stored, err := s.prefStore.Get(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return model.Preferences{}, fmt.Errorf("getting preferences: %w", err)
	}
	return s.Resolve(stored), nil
}

func (s *preferencesService) Put(ctx context.Context, userID int64, doc map[string]any) (model.Preferences, error) {
	resolved := s.Resolve(doc)
	if err := s.prefStore.Put(ctx, userID, doc); err != nil {
		return model.Preferences{}, fmt.Errorf("storing preferences: %w", err)
	}
	return resolved, nil
}

func (s *preferencesService) Resolve(stored map[string]any) model.Preferences {
	merged := merge(defaultPreferences(), stored)

	var prefs model.Preferences
	// The merged document is built from JSON-compatible values, so this
	// round-trip cannot fail; decode errors would mean a broken default.
	data, _ := json.Marshal(merged)
	_ = json.Unmarshal(data, &prefs)
	return prefs
}

// merge is right-biased: stored values win. Nested objects recurse;
// everything else, arrays included, is replaced wholesale. A stored empty
// array therefore overrides a non-empty default.
func merge(defaults, stored map[string]any) map[string]any {
	out := make(map[string]any, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	for k, sv := range stored {
		dv, exists := out[k]
		if !exists {
			out[k] = sv
			continue
		}

		dMap, dOK := dv.(map[string]any)
		sMap, sOK := sv.(map[string]any)
		if dOK && sOK {
			out[k] = merge(dMap, sMap)
			continue
		}

		out[k] = sv
	}

	return out
}
