package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailInUseQuery_NoExclusion(t *testing.T) {
	t.Parallel()

	// Registration checks against all accounts. The id column is a UUID, so
	// the query must not bind a second parameter at all: an empty string is
	// not a valid uuid and the server would reject it at bind time.
	query, args := emailInUseQuery("A@X.com", "")

	assert.NotContains(t, query, "$2")
	assert.NotContains(t, query, "id <>")
	require.Len(t, args, 1)
	assert.Equal(t, "a@x.com", args[0])
}

func TestEmailInUseQuery_WithExclusion(t *testing.T) {
	t.Parallel()

	id := "0d4ce0a0-9c2f-4f6c-9a51-0a4c2d2f7b11"
	query, args := emailInUseQuery("  b@x.com ", id)

	assert.True(t, strings.Contains(query, "id <> $2"), query)
	require.Len(t, args, 2)
	assert.Equal(t, "b@x.com", args[0])
	assert.Equal(t, id, args[1])
}
