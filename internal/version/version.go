package version

// Version is the release identifier. Release builds stamp it with ldflags:
// go build -ldflags "-X github.com/jkirker/Page-Exec-Timer/internal/version.Version=v0.4.0".
var Version = "unknown"

// BuildTime and GitCommit are stamped the same way. "unknown" means a plain
// go build without release flags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
