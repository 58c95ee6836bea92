package telemetry

import (
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const alertsPath = "../../deploy/prometheus/alerts.yml"

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertConfig struct {
	Groups []alertGroup `yaml:"groups"`
}

func loadAlerts(t *testing.T) alertConfig {
	t.Helper()
	data, err := os.ReadFile(alertsPath)
	if err != nil {
		t.Skipf("Skipping test: alerts file not found at %s", alertsPath)
	}

	var config alertConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		t.Fatalf("Invalid YAML in alerts.yml: %v", err)
	}
	return config
}

// TestAlertsFileValid verifies the Prometheus alerts configuration is valid YAML.
func TestAlertsFileValid(t *testing.T) {
	config := loadAlerts(t)
	if len(config.Groups) == 0 {
		t.Fatal("alerts.yml 'groups' is empty or invalid")
	}
	t.Logf("Successfully parsed alerts.yml with %d alert groups", len(config.Groups))
}

// TestAlertLabels verifies alerts have required labels.
func TestAlertLabels(t *testing.T) {
	config := loadAlerts(t)

	for _, group := range config.Groups {
		for _, alert := range group.Rules {
			if alert.Alert == "" {
				continue // Skip non-alert rules
			}
			if _, ok := alert.Labels["severity"]; !ok {
				t.Errorf("Alert '%s' missing 'severity' label", alert.Alert)
			}
			if _, ok := alert.Annotations["summary"]; !ok {
				t.Errorf("Alert '%s' missing 'summary' annotation", alert.Alert)
			}
		}
	}
}

// TestAlertMetricsExist verifies every beacon metric referenced by an alert is exported.
func TestAlertMetricsExist(t *testing.T) {
	config := loadAlerts(t)

	m := NewMetrics("beacon")
	m.RequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	m.RequestDuration.WithLabelValues("GET", "/health", "200").Observe(0.01)
	m.ObserveGraphQLOperation(false, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	exported := make(map[string]bool, len(families))
	for _, mf := range families {
		exported[mf.GetName()] = true
	}

	metricName := regexp.MustCompile(`beacon_[a-z_]+`)
	for _, group := range config.Groups {
		for _, alert := range group.Rules {
			for _, name := range metricName.FindAllString(alert.Expr, -1) {
				base := name
				for _, suffix := range []string{"_bucket", "_sum", "_count"} {
					base = strings.TrimSuffix(base, suffix)
				}
				if !exported[base] {
					t.Errorf("Alert '%s' references %s which is not exported", alert.Alert, name)
				}
			}
		}
	}
}
