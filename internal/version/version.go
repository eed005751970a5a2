package version

// Name identifies this service in logs, traces, and metrics.
const Name = "niyyah-api"

// Version is overridden at build time via -ldflags.
var Version = "dev"
