package export

// DatasourceDescriptor describes a datasource plugin for portability
// metadata. Name is the symbolic input name Grafana substitutes on import.
type DatasourceDescriptor struct {
	Name       string
	Label      string
	PluginID   string
	PluginName string
}

// datasources is the fixed set of datasource types the tool can declare in
// __inputs/__requires. Types outside this table are skipped, not errored.
var datasources = map[string]DatasourceDescriptor{
	"prometheus": {
		Name:       "DS_PROMETHEUS",
		Label:      "Prometheus",
		PluginID:   "prometheus",
		PluginName: "Prometheus",
	},
	"loki": {
		Name:       "DS_LOKI",
		Label:      "Loki",
		PluginID:   "loki",
		PluginName: "Loki",
	},
	"influxdb": {
		Name:       "DS_INFLUXDB",
		Label:      "InfluxDB",
		PluginID:   "influxdb",
		PluginName: "InfluxDB",
	},
}

// LookupDatasource returns the descriptor for a datasource type identifier.
func LookupDatasource(dsType string) (DatasourceDescriptor, bool) {
	d, ok := datasources[dsType]
	return d, ok
}
