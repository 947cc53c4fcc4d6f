package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bturcanu/voicehook/pkg/webhook"
	"gopkg.in/yaml.v3"
)

// Backend names the tool adapters dispatch to.
const (
	EndpointN8N      = "n8n_webhooks"
	EndpointBooking  = "booking_system"
	EndpointCalendar = "calendar_service"
	EndpointCRM      = "crm_system"
)

type endpointDefault struct {
	name       string
	url        string
	timeoutSec int
}

var defaultEndpoints = []endpointDefault{
	{EndpointN8N, "http://localhost:5678/webhook", 10},
	{EndpointBooking, "http://localhost:8091/api/v1", 10},
	{EndpointCalendar, "http://localhost:8092/api", 5},
	{EndpointCRM, "http://localhost:8093/api/v2", 8},
}

// endpointFile is the YAML layout of WEBHOOK_CONFIG_FILE:
//
//	endpoints:
//	  - name: n8n_webhooks
//	    url: https://example.app.n8n.cloud/webhook
//	    timeout: 10s
//	  - name: crm_system
//	    url: https://crm.example.com/api/v2
//	    api_key: ${CRM_API_KEY}
//	    timeout: 8s
type endpointFile struct {
	Endpoints []endpointEntry `yaml:"endpoints"`
}

type endpointEntry struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// LoadEndpoints builds the endpoint registry once at startup: from the YAML file
// named by WEBHOOK_CONFIG_FILE when set, otherwise from per-endpoint env vars.
func LoadEndpoints() (*webhook.Registry, error) {
	if path := os.Getenv("WEBHOOK_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read endpoint file: %w", err)
		}
		return ParseEndpoints(raw)
	}
	return endpointsFromEnv()
}

// ParseEndpoints decodes a YAML endpoint document. api_key values are expanded
// against the environment so secrets can stay out of the file.
func ParseEndpoints(raw []byte) (*webhook.Registry, error) {
	var file endpointFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse endpoint file: %w", err)
	}
	eps := make([]webhook.Endpoint, 0, len(file.Endpoints))
	for _, e := range file.Endpoints {
		timeout := 10 * time.Second
		if s := strings.TrimSpace(e.Timeout); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("endpoint %q timeout: %w", e.Name, err)
			}
			timeout = d
		}
		eps = append(eps, webhook.Endpoint{
			Name:    e.Name,
			BaseURL: e.URL,
			APIKey:  os.ExpandEnv(e.APIKey),
			Timeout: timeout,
		})
	}
	return webhook.NewRegistry(eps...)
}

func endpointsFromEnv() (*webhook.Registry, error) {
	eps := make([]webhook.Endpoint, 0, len(defaultEndpoints))
	for _, d := range defaultEndpoints {
		prefix := "WEBHOOK_" + strings.ToUpper(d.name) + "_"
		eps = append(eps, webhook.Endpoint{
			Name:    d.name,
			BaseURL: EnvOr(prefix+"URL", d.url),
			APIKey:  os.Getenv(prefix + "API_KEY"),
			Timeout: time.Duration(EnvOrInt(prefix+"TIMEOUT_SEC", d.timeoutSec)) * time.Second,
		})
	}
	return webhook.NewRegistry(eps...)
}
