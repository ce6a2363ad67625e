package Storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(12, "site plan.pdf")

	assert.True(t, strings.HasPrefix(key, "projects/12/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	// Keys are unique per call even for the same filename
	assert.NotEqual(t, key, ObjectKey(12, "site plan.pdf"))
}

func TestObjectKeyNoExtension(t *testing.T) {
	key := ObjectKey(3, "README")
	assert.True(t, strings.HasPrefix(key, "projects/3/"))
	assert.NotContains(t, key, " ")
}
