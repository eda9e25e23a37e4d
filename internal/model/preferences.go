package model

// Preferences is the fully-resolved configuration value. Nothing past the
// resolver boundary ever sees a partial document.
type Preferences struct {
	NetworkFeed   NetworkFeedPrefs  `json:"networkFeed"`
	Notifications NotificationPrefs `json:"notifications"`
	Privacy       PrivacyPrefs      `json:"privacy"`
	Expertise     ExpertisePrefs    `json:"expertise"`
}

type NetworkFeedPrefs struct {
	MaxDegree          int      `json:"maxDegree"`
	SortOrder          string   `json:"sortOrder"` // newest | popular | relevant
	ActivityTypes      string   `json:"activityTypes"`
	ShowTags           []string `json:"showTags"`
	HideTags           []string `json:"hideTags"`
	AutoRefresh        bool     `json:"autoRefresh"`
	RefreshIntervalSec int      `json:"refreshIntervalSec"`
	ResultLimit        int      `json:"resultLimit"`
}

type NotificationPrefs struct {
	EmailOnMatch    bool `json:"emailOnMatch"`
	EmailOnResponse bool `json:"emailOnResponse"`
	EmailDigest     bool `json:"emailDigest"`
}

type PrivacyPrefs struct {
	ShowProfileToDegree int  `json:"showProfileToDegree"`
	DiscoverableByEmail bool `json:"discoverableByEmail"`
}

type ExpertisePrefs struct {
	AutoSuggestTags bool `json:"autoSuggestTags"`
	WeeklyQuota     int  `json:"weeklyQuota"`
}
