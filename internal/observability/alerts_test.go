package observability

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

type ruleFile struct {
	Groups []struct {
		Name  string `yaml:"name"`
		Rules []struct {
			Alert       string            `yaml:"alert"`
			Expr        string            `yaml:"expr"`
			For         string            `yaml:"for"`
			Labels      map[string]string `yaml:"labels"`
			Annotations map[string]string `yaml:"annotations"`
		} `yaml:"rules"`
	} `yaml:"groups"`
}

var metricName = regexp.MustCompile(`stockdesk_[a-z_]+`)

// exposedFamilies returns every metric family the web and worker processes
// export once each series has been touched.
func exposedFamilies(t *testing.T) map[string]bool {
	t.Helper()
	m := NewMetrics()
	jm := jobmetrics.NewMetrics(m.Registerer())
	jm.Track("x").End(nil)
	jm.Track("x").End(assert.AnError)
	jm.Scheduled("x", "queued")
	m.ObserveAPICall(http.MethodGet, "products", 200, time.Millisecond)
	m.requests.WithLabelValues(http.MethodGet, "/", "200").Inc()
	m.latency.WithLabelValues("/").Observe(0.1)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
		if f.GetType().String() == "HISTOGRAM" {
			for _, suffix := range []string{"_bucket", "_sum", "_count"} {
				names[f.GetName()+suffix] = true
			}
		}
	}
	return names
}

func TestAlertRules(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "deploy", "prometheus", "alerts", "stockdesk.yml"))
	require.NoError(t, err)
	var file ruleFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.Len(t, file.Groups, 1)
	require.Equal(t, "stockdesk", file.Groups[0].Name)

	runbook, err := os.ReadFile(filepath.Join("..", "..", "docs", "runbook-ops.md"))
	require.NoError(t, err)

	want := map[string]string{
		"HighErrorRate":       "critical",
		"BackendUnavailable":  "critical",
		"BackendHighLatency":  "warning",
		"ReminderJobFailures": "warning",
	}
	exposed := exposedFamilies(t)
	rules := file.Groups[0].Rules
	require.Len(t, rules, len(want))
	for _, rule := range rules {
		severity, ok := want[rule.Alert]
		require.True(t, ok, "unexpected rule %q", rule.Alert)
		assert.Equal(t, severity, rule.Labels["severity"], rule.Alert)
		assert.NotEmpty(t, rule.For, rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], rule.Alert)

		anchor := regexp.MustCompile(`^docs/runbook-ops\.md#([a-z-]+)$`).FindStringSubmatch(rule.Annotations["runbook"])
		require.Len(t, anchor, 2, "rule %s runbook link", rule.Alert)
		heading := "## " + strings.ReplaceAll(anchor[1], "-", " ")
		assert.Contains(t, strings.ToLower(string(runbook)), heading, "runbook section for %s", rule.Alert)

		for _, name := range metricName.FindAllString(rule.Expr, -1) {
			assert.True(t, exposed[name], "rule %s uses unknown metric %s", rule.Alert, name)
		}
	}
}
