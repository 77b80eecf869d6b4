package build

// Version is set at link time with -ldflags "-X .../internal/build.Version=...".
var Version = "dev"
