package version

import "testing"

func TestInfo(t *testing.T) {
	Version, Commit, Date = "v1.0.0", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	if got, want := Info(), "clillm v1.0.0 (commit abc123, built 2026-01-02)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}
