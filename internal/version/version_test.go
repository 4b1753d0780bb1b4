package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetails(t *testing.T) {
	old := GitCommit
	GitCommit = "abc1234"
	t.Cleanup(func() { GitCommit = old })

	got := Details()
	assert.Contains(t, got, "v"+Version)
	assert.Contains(t, got, "Commit: abc1234")
}
