package graph

// ============================================================================
// Graph Types
// ============================================================================

// Group is the semantic category of a node
type Group string

const (
	GroupFile       Group = "file"
	GroupComponent  Group = "component"
	GroupAPI        Group = "api"
	GroupDatabase   Group = "database"
	GroupConfig     Group = "config"
	GroupDependency Group = "dependency"
)

// LinkKind distinguishes structural links from import links. It is not serialized.
type LinkKind int

const (
	LinkContainment LinkKind = iota
	LinkDependency
	LinkImport
)

// Issue is attached to nodes by downstream reviewers; the graph builder never writes it
type Issue struct {
	Severity string `json:"severity" yaml:"severity"` // high, medium, low
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Type     string `json:"type" yaml:"type"` // security, performance, style
}

// Node is a file, directory, dependency or synthetic grouping vertex
type Node struct {
	ID     string  `json:"id" yaml:"id"`
	Group  Group   `json:"group" yaml:"group"`
	Label  string  `json:"label" yaml:"label"`
	Val    float64 `json:"val" yaml:"val"`
	Issues []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Link is a directed edge between two node ids
type Link struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Value  int      `json:"value" yaml:"value"`
	Kind   LinkKind `json:"-" yaml:"-"`
}

// TreeEntry is one item of a flat recursive repository listing
type TreeEntry struct {
	Path       string
	Type       string // blob, tree
	Size       int64  // 0 when unknown
	ContentURL string
}

// IsBlob reports whether the entry is a file
func (e TreeEntry) IsBlob() bool {
	return e.Type == "blob"
}

// Stats are scalar facts derived from the assembled graph
type Stats struct {
	FileCount       int    `json:"fileCount" yaml:"fileCount"`
	DirectoryCount  int    `json:"directoryCount" yaml:"directoryCount"`
	DependencyCount int    `json:"dependencyCount" yaml:"dependencyCount"`
	ImportLinkCount int    `json:"importLinkCount" yaml:"importLinkCount"`
	ParsedFiles     int    `json:"parsedFiles" yaml:"parsedFiles"`
	ManifestStatus  string `json:"manifestStatus" yaml:"manifestStatus"`
	TreeTruncated   bool   `json:"treeTruncated,omitempty" yaml:"treeTruncated,omitempty"`
}

// Hotspot is a file many other files import
type Hotspot struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	ImportCount  int    `json:"importCount" yaml:"importCount"`
	IsBottleneck bool   `json:"isBottleneck" yaml:"isBottleneck"`
	Cycle        string `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// Analysis is the response of one repository analysis
type Analysis struct {
	Nodes     []Node    `json:"nodes" yaml:"nodes"`
	Links     []Link    `json:"links" yaml:"links"`
	Summary   string    `json:"summary" yaml:"summary"`
	RiskScore int       `json:"riskScore" yaml:"riskScore"`
	TechStack []string  `json:"techStack" yaml:"techStack"`
	Stats     Stats     `json:"stats" yaml:"stats"`
	Hotspots  []Hotspot `json:"hotspots" yaml:"hotspots"`
}
