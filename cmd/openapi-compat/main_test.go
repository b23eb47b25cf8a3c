package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseline = `
paths:
  /posts:
    get:
      responses:
        "200": {}
    post:
      responses:
        "201": {}
        "400": {}
  /legacy:
    get:
      responses:
        "200": {}
`

func TestCompare(t *testing.T) {
	base, err := parse([]byte(baseline))
	require.NoError(t, err)

	revision, err := parse([]byte(`
paths:
  /posts:
    get:
      responses:
        "200": {}
    post:
      responses:
        "201": {}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"removed path: /legacy",
		"removed response code: POST /posts -> 400",
	}, compare(base, revision))
	assert.Empty(t, compare(base, base))
}

func TestParse_MissingPaths(t *testing.T) {
	_, err := parse([]byte("swagger: \"2.0\"\n"))
	assert.Error(t, err)
}

func TestCurrentDocumentCoversRoutes(t *testing.T) {
	out, err := currentYAML()
	require.NoError(t, err)

	current, err := parse(out)
	require.NoError(t, err)
	for _, path := range []string{"/auth/register", "/auth/login", "/auth/me", "/posts", "/posts/{id}", "/comments/{postId}"} {
		assert.Contains(t, current, path)
	}
	assert.True(t, current["/posts"]["post"]["201"])
}
