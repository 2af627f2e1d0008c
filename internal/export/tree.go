// Package export reconstructs a Grafana instance's folder hierarchy on disk
// and writes every dashboard into it as a re-importable JSON file.
package export

import (
	"path/filepath"
	"sort"

	"github.com/grafbak/grafbak/client"
)

// DashboardRef points at one dashboard and the directory it will be written
// into. Path is the owning folder's path, fixed at attachment time.
type DashboardRef struct {
	UID   string
	Title string
	Path  string
}

// FolderNode is one directory in the output tree, keyed by folder UID in the
// mapping returned by BuildTree.
type FolderNode struct {
	Title      string
	Path       string
	Dashboards []DashboardRef
}

// BuildTree maps the flat folder list and the flat search result list onto a
// directory layout rooted at outputRoot. The second return value counts hits
// that were dropped because their folderUid was absent or did not resolve
// (root-level items and orphans are excluded from export).
//
// Construction is deterministic regardless of API response order: hits are
// stable-sorted by UID, all folder hits are placed before any dashboard is
// attached, and nested folders are resolved iteratively so a sub-folder is
// found even when its parent is itself a sub-folder. Every DashboardRef
// therefore records its folder's final path.
func BuildTree(folders []client.Folder, hits []client.SearchHit, outputRoot string) (map[string]*FolderNode, int) {
	nodes := make(map[string]*FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.UID] = &FolderNode{Title: f.Title, Path: filepath.Join(outputRoot, f.Title)}
	}

	sorted := make([]client.SearchHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UID < sorted[j].UID })

	var folderHits, dashHits []client.SearchHit
	for _, h := range sorted {
		if h.Type == client.SearchTypeFolder {
			folderHits = append(folderHits, h)
		} else {
			dashHits = append(dashHits, h)
		}
	}

	dropped := 0

	// Place folders until a full pass makes no progress. Whatever is left has
	// no resolvable parent.
	queue := folderHits
	for len(queue) > 0 {
		var unresolved []client.SearchHit
		for _, h := range queue {
			parent, ok := nodes[h.FolderUID]
			if h.FolderUID == "" || !ok {
				unresolved = append(unresolved, h)
				continue
			}
			nodes[h.UID] = &FolderNode{Title: h.Title, Path: filepath.Join(parent.Path, h.Title)}
		}
		if len(unresolved) == len(queue) {
			dropped += len(unresolved)
			break
		}
		queue = unresolved
	}

	for _, h := range dashHits {
		parent, ok := nodes[h.FolderUID]
		if h.FolderUID == "" || !ok {
			dropped++
			continue
		}
		parent.Dashboards = append(parent.Dashboards, DashboardRef{
			UID:   h.UID,
			Title: h.Title,
			Path:  parent.Path,
		})
	}

	return nodes, dropped
}
