package constants

// Node weights (val) used for visual sizing
const (
	RootWeight           = 40.0
	DirectoryWeight      = 12.0
	DependencyRootWeight = 20.0
	DependencyWeight     = 8.0

	// File weights are size/FileSizeDivisor clamped to [MinFileWeight, MaxFileWeight]
	MinFileWeight   = 4.0
	MaxFileWeight   = 20.0
	FileSizeDivisor = 400.0
	// DefaultFileSize is assumed when the tree listing carries no size
	DefaultFileSize = 500
)

// Link weights
const (
	ContainmentLinkValue = 1
	StrongLinkValue      = 2
)

// Graph identifiers
const (
	DependencyIDPrefix      = "dep:"
	DependencyRootSegment   = "dependencies"
	DependencyRootLabel     = "Dependencies"
	ManifestPath            = "package.json"
	UnknownLanguage         = "Unknown"
	PlaceholderRiskScore    = 10
	TechStackDependencyCap  = 5
	HotspotLimit            = 10
	HotspotBottleneckImport = 3
)

// Analysis defaults
const (
	// DefaultImportScanLimit caps how many source files are fetched for import resolution
	DefaultImportScanLimit = 10
	// DefaultImportConcurrency caps parallel content fetches in the import pass
	DefaultImportConcurrency = 10
	// MaxContentBytes bounds how much of a single file body is read
	MaxContentBytes = 5 * 1024 * 1024
)
