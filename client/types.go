package client

import (
	"encoding/json"
	"time"
)

// SearchType distinguishes the kinds of hits returned by /api/search.
type SearchType string

const (
	// SearchTypeDashboard marks a dashboard hit.
	SearchTypeDashboard SearchType = "dash-db"
	// SearchTypeFolder marks a folder hit.
	SearchTypeFolder SearchType = "dash-folder"
	// SearchTypeHome marks the home dashboard hit.
	SearchTypeHome SearchType = "dash-home"
)

// Folder is a dashboard folder as returned by /api/folders.
type Folder struct {
	ID       int64  `json:"id"`
	UID      string `json:"uid"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	HasACL   bool   `json:"hasAcl"`
	CanSave  bool   `json:"canSave"`
	CanEdit  bool   `json:"canEdit"`
	CanAdmin bool   `json:"canAdmin"`
	Version  int    `json:"version"`
}

// SearchHit is a single entry from /api/search. The flat result list mixes
// dashboards and folders; FolderUID is empty for items at the root.
type SearchHit struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid"`
	Title       string     `json:"title"`
	URI         string     `json:"uri"`
	URL         string     `json:"url"`
	Type        SearchType `json:"type"`
	Tags        []string   `json:"tags"`
	IsStarred   bool       `json:"isStarred"`
	FolderUID   string     `json:"folderUid,omitempty"`
	FolderTitle string     `json:"folderTitle,omitempty"`
}

// DashboardMeta is the meta envelope returned alongside a dashboard.
type DashboardMeta struct {
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	FolderUID   string    `json:"folderUid"`
	FolderTitle string    `json:"folderTitle"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Version     int       `json:"version"`
	IsFolder    bool      `json:"isFolder"`
}

// DashboardWithMeta is the response of /api/dashboards/uid/{uid}. The
// dashboard body is kept raw so that its top-level key order survives the
// round trip to disk.
type DashboardWithMeta struct {
	Meta      DashboardMeta   `json:"meta"`
	Dashboard json.RawMessage `json:"dashboard"`
}

// HealthResponse is the response of /api/health.
type HealthResponse struct {
	Commit   string `json:"commit"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
