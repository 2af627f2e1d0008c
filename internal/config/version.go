package config

// Version is the grafbak binary version.
// Set at build time via: -ldflags "-X github.com/grafbak/grafbak/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
