package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/grafbak/grafbak/client"
)

const (
	// grafanaVersion is the fixed host-platform version declared in __requires.
	grafanaVersion = "11.0.0"
	// datasourceVersion is the fixed plugin version declared per datasource.
	datasourceVersion = "1.0.0"
)

// identityKeys are the dashboard fields re-asserted as the last keys of the
// output document, with the values from the original fetch.
var identityKeys = []string{"timezone", "title", "uid", "version", "weekStart"}

// datasourceInput is one __inputs entry.
type datasourceInput struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Type        string `json:"type"`
	PluginID    string `json:"pluginId"`
	PluginName  string `json:"pluginName"`
}

// requirement is one __requires entry.
type requirement struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Exporter writes single dashboards to disk.
type Exporter struct {
	api    *client.Client
	log    *logrus.Logger
	enrich bool
}

// NewExporter creates an Exporter. When enrich is true each exported dashboard
// is annotated with __inputs/__requires portability metadata.
func NewExporter(api *client.Client, log *logrus.Logger, enrich bool) *Exporter {
	return &Exporter{api: api, log: log, enrich: enrich}
}

// Export fetches the dashboard behind ref, builds the canonical output
// document, and writes it to ref.Path. It returns the written file path. Any
// failure is fatal to the caller's run; files written so far stay on disk.
func (e *Exporter) Export(ctx context.Context, ref DashboardRef) (string, error) {
	resp, err := e.api.Dashboards.GetByUID(ctx, ref.UID)
	if err != nil {
		return "", fmt.Errorf("fetch dashboard %q: %w", ref.UID, err)
	}

	src, err := parseDocument(resp.Dashboard)
	if err != nil {
		return "", fmt.Errorf("parse dashboard %q: %w", ref.UID, err)
	}

	out, err := buildOutput(src, e.enrich)
	if err != nil {
		return "", fmt.Errorf("build output for dashboard %q: %w", ref.UID, err)
	}

	data, err := out.marshalIndent()
	if err != nil {
		return "", fmt.Errorf("serialize dashboard %q: %w", ref.UID, err)
	}

	if err := os.MkdirAll(ref.Path, 0o755); err != nil {
		return "", fmt.Errorf("create folder %q: %w", ref.Path, err)
	}

	path := filepath.Join(ref.Path, SanitizeTitle(ref.Title)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write dashboard file: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"uid":   ref.UID,
		"title": ref.Title,
		"path":  path,
	}).Info("dashboard exported")

	return path, nil
}

// buildOutput assembles the canonical output document: __inputs/__requires
// first when enrichment is on, the original keys in their original order, and
// the identity fields moved to the end with their fetched values (null when
// the fetch did not include them).
func buildOutput(src *document, enrich bool) (*document, error) {
	out := newDocument()

	if enrich {
		types, err := panelDatasourceTypes(src)
		if err != nil {
			return nil, err
		}
		inputs, requires := portabilityFor(types)
		inputsRaw, err := json.Marshal(inputs)
		if err != nil {
			return nil, fmt.Errorf("marshal __inputs: %w", err)
		}
		requiresRaw, err := json.Marshal(requires)
		if err != nil {
			return nil, fmt.Errorf("marshal __requires: %w", err)
		}
		out.set("__inputs", inputsRaw)
		out.set("__requires", requiresRaw)
	}

	trailer := make(map[string]bool, len(identityKeys))
	for _, k := range identityKeys {
		trailer[k] = true
	}

	for _, k := range src.keys {
		if enrich && (k == "__inputs" || k == "__requires") {
			continue
		}
		if trailer[k] {
			continue
		}
		out.set(k, src.values[k])
	}

	for _, k := range identityKeys {
		if v, ok := src.get(k); ok {
			out.set(k, v)
		} else {
			out.set(k, json.RawMessage("null"))
		}
	}

	return out, nil
}

// panelDatasourceTypes collects the distinct datasource type identifiers used
// by the dashboard's panels. Panels whose datasource is not an object with a
// type field contribute nothing.
func panelDatasourceTypes(src *document) ([]string, error) {
	raw, ok := src.get("panels")
	if !ok {
		return nil, nil
	}

	var panels []struct {
		Datasource json.RawMessage `json:"datasource"`
	}
	if err := json.Unmarshal(raw, &panels); err != nil {
		return nil, fmt.Errorf("decode panels: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range panels {
		if len(p.Datasource) == 0 {
			continue
		}
		var ds struct {
			Type string `json:"type"`
		}
		// Legacy dashboards store the datasource as a plain name string;
		// those cannot name a type and are skipped.
		if err := json.Unmarshal(p.Datasource, &ds); err != nil || ds.Type == "" {
			continue
		}
		seen[ds.Type] = true
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

// portabilityFor builds the __inputs and __requires lists for the given
// datasource types. The host Grafana requirement always comes first; unknown
// datasource types are omitted.
func portabilityFor(types []string) ([]datasourceInput, []requirement) {
	inputs := []datasourceInput{}
	requires := []requirement{{
		Type:    "grafana",
		ID:      "grafana",
		Name:    "Grafana",
		Version: grafanaVersion,
	}}

	for _, t := range types {
		d, ok := LookupDatasource(t)
		if !ok {
			continue
		}
		inputs = append(inputs, datasourceInput{
			Name:       d.Name,
			Label:      d.Label,
			Type:       "datasource",
			PluginID:   d.PluginID,
			PluginName: d.PluginName,
		})
		requires = append(requires, requirement{
			Type:    "datasource",
			ID:      t,
			Name:    d.PluginName,
			Version: datasourceVersion,
		})
	}

	return inputs, requires
}

// SanitizeTitle reduces a dashboard title to a filesystem-safe file name:
// letters, digits, spaces, hyphens, and underscores survive, everything else
// is removed, and surrounding whitespace is trimmed. Idempotent.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
