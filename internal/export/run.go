package export

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/grafbak/grafbak/client"
	"github.com/grafbak/grafbak/internal/config"
)

// Summary accumulates the counts reported at the end of a run.
type Summary struct {
	FoldersCreated     int
	DashboardsExported int
	HitsDropped        int
}

// Runner drives a full export: fetch folders and search results, build the
// tree, create directories, and export every attached dashboard one at a time.
type Runner struct {
	api *client.Client
	log *logrus.Logger
	cfg *config.Config
}

// NewRunner creates a Runner for the given client and configuration.
func NewRunner(api *client.Client, log *logrus.Logger, cfg *config.Config) *Runner {
	return &Runner{api: api, log: log, cfg: cfg}
}

// Run executes the export. The first transport or filesystem error aborts the
// run; files written before the failure remain on disk. The returned Summary
// reflects what was completed.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	folders, err := r.api.Folders.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list folders: %w", err)
	}

	hits, err := r.api.Search.All(ctx, "")
	if err != nil {
		return sum, fmt.Errorf("search dashboards: %w", err)
	}

	tree, dropped := BuildTree(folders, hits, r.cfg.SaveFolder)
	sum.HitsDropped = dropped
	if dropped > 0 {
		r.log.WithFields(logrus.Fields{"count": dropped}).Warn("search hits without a resolvable folder were skipped")
	}

	exporter := NewExporter(r.api, r.log, r.cfg.ExportSharing)

	// Map iteration order is randomized; walk the tree in UID order so runs
	// are reproducible.
	uids := make([]string, 0, len(tree))
	for uid := range tree {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	for _, uid := range uids {
		node := tree[uid]

		if _, err := os.Stat(node.Path); os.IsNotExist(err) {
			if err := os.MkdirAll(node.Path, 0o755); err != nil {
				return sum, fmt.Errorf("create folder %q: %w", node.Path, err)
			}
			sum.FoldersCreated++
		}

		for _, ref := range node.Dashboards {
			if _, err := exporter.Export(ctx, ref); err != nil {
				return sum, err
			}
			sum.DashboardsExported++
		}
	}

	return sum, nil
}
