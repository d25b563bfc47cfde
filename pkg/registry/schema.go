// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity describes one Zeebe task type this service can work on.
type Activity struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	TaskType     string                 `json:"taskType"`
	Enabled      bool                   `json:"enabled"`
	Model        string                 `json:"model"`
	Temperature  float64                `json:"temperature"`
	WebSearch    bool                   `json:"webSearch"`
	OutputKey    string                 `json:"outputKey"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Tags         []string               `json:"tags"`
}
