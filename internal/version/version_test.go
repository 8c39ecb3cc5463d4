package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "dev", format("dev", ""))
	assert.Equal(t, "v1.2.0 (abc1234)", format("v1.2.0", "abc1234def5678"))
	assert.Equal(t, "v1.2.0 (abc)", format("v1.2.0", "abc"))
}
