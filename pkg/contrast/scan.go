package contrast

// Scan aggregates the findings of one standalone image scan, the result
// shape shared by the CLI contrast command and the MCP contrast tool.
type Scan struct {
	Image    string  `json:"image" yaml:"image"`
	Findings []Issue `json:"findings" yaml:"findings"`
	Count    int     `json:"count" yaml:"count"`
}

// NewScan wraps findings for output. A nil slice becomes an empty one so
// the encoded document always carries a findings array.
func NewScan(image string, findings []Issue) Scan {
	if findings == nil {
		findings = []Issue{}
	}
	return Scan{Image: image, Findings: findings, Count: len(findings)}
}
