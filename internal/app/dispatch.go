package app

import "context"

// BuildRequest is a fire-and-acknowledge build order for one artifact.
type BuildRequest struct {
	BuildID      string  `json:"build_id"`
	Name         string  `json:"name"`
	AssemblyID   uint64  `json:"assembly_id"`
	SourceURI    string  `json:"source_uri"`
	TestCmd      *string `json:"test_cmd"`
	BaseImageID  string  `json:"base_image_id"`
	SourceFormat string  `json:"source_format"`
	ImageFormat  string  `json:"image_format"`
}

// BuildDispatcher describes the async client of the worker backend.
type BuildDispatcher interface {
	Request(ctx context.Context, r BuildRequest) error
}

// DeployDispatcher describes the async client of the deployer backend.
type DeployDispatcher interface {
	RequestTeardown(ctx context.Context, assemblyID uint64) error
}

// DispatchConfig is built once at process start and passed to the components
// that need it; nothing reads dispatch settings from ambient state.
type DispatchConfig struct {
	BuildQueue          string
	DeployQueue         string
	StateQueue          string
	ImageFormat         string
	DefaultSourceFormat string
	DefaultLanguagePack string
}
