package gitclient

import (
	"testing"

	"github.com/huangsam/gitpet/internal/contract"
)

// FuzzParseRemoteSlug fuzzes ParseRemoteSlug with arbitrary remote URLs.
func FuzzParseRemoteSlug(f *testing.F) {
	seeds := []string{
		"git@github.com:huangsam/gitpet.git",
		"https://github.com/huangsam/gitpet",
		"ssh://git@host:22/owner/repo.git",
		"file:///tmp/repo",
		"",
		"::::",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, remote string) {
		slug, err := ParseRemoteSlug(remote)
		if err == nil && !contract.IsRepoSlug(slug) {
			t.Errorf("ParseRemoteSlug(%q) returned invalid slug %q", remote, slug)
		}
	})
}
