package model

// CleanResponse is the body returned for a cleaned slide.
type CleanResponse struct {
	CleanedImage string `json:"cleaned_image"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse reports liveness and the running build.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// VersionResponse carries build metadata injected with -ldflags.
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	BuildID   string `json:"build_id"`
	GitCommit string `json:"git_commit"`
	GitBranch string `json:"git_branch"`
	Strategy  string `json:"strategy"`
}
