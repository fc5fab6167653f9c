package version

import "testing"

func TestStampsNeverEmpty(t *testing.T) {
	stamps := map[string]string{
		"Version":   Version,
		"BuildTime": BuildTime,
		"GitCommit": GitCommit,
	}
	for name, value := range stamps {
		if value == "" {
			t.Errorf("%s is empty; unstamped builds should read %q", name, "unknown")
		}
	}
}
