package localization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageFormatsPositionalArguments(t *testing.T) {
	c := New(map[string]string{
		"greeting": "{1}, {0}! {0} again",
		"plain":    "no arguments {0}",
	})

	assert.Equal(t, "hello, world! world again", c.Message("greeting", "world", "hello"))
	assert.Equal(t, "no arguments {0}", c.Message("plain"))
}

func TestMissingArgumentsStayVerbatim(t *testing.T) {
	c := New(map[string]string{"pr": "#{0}: {1}"})
	assert.Equal(t, "#42: {1}", c.Message("pr", 42))
}

func TestMissingKeyRendersPlaceholder(t *testing.T) {
	c := New(map[string]string{})
	assert.Equal(t, "??_github.issues.pinned_??", c.Message("github.issues.pinned", "octo/hello"))
	assert.False(t, c.Has("github.issues.pinned"))
}

func TestEmbeddedBundles(t *testing.T) {
	for _, target := range []string{"discord", "irc"} {
		c, err := Load(target, "")
		assert.Nil(t, err, target)
		assert.True(t, c.Has("github.push"), target)
	}

	irc, _ := Load("irc", "")
	assert.Contains(t, irc.Message("github.public", "octo/hello", "octocat"), "octo/hello")

	_, err := Load("slack", "")
	assert.NotNil(t, err)
}

func TestNestedKeysAreFlattened(t *testing.T) {
	templates, err := parse([]byte(`
github:
  issues:
    opened: "opened {0}"
  push: "pushed"
github.fork: "forked"
`))
	assert.Nil(t, err)
	assert.Equal(t, "opened {0}", templates["github.issues.opened"])
	assert.Equal(t, "pushed", templates["github.push"])
	assert.Equal(t, "forked", templates["github.fork"])
}

func TestDirectoryOverridesEmbeddedKeys(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "discord.yaml"), []byte(`github.push: "Neue Commits in **{0}**"`), 0644)
	assert.Nil(t, err)

	c, err := Load("discord", dir)
	assert.Nil(t, err)
	assert.Equal(t, "Neue Commits in **octo/hello**", c.Message("github.push", "octo/hello"))
	assert.True(t, c.Has("github.fork"), "keys missing from the override keep their embedded value")

	other := t.TempDir()
	c, err = Load("discord", other)
	assert.Nil(t, err, "a directory without the bundle falls back to the embedded one")
	assert.Equal(t, "New commits in **octo/hello**", c.Message("github.push", "octo/hello"))
}

func TestInvalidOverrideFails(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "irc.yaml"), []byte("github.push: [unterminated"), 0644)

	_, err := Load("irc", dir)
	assert.NotNil(t, err)
}

func TestTransformLeavesTheSourceCatalogAlone(t *testing.T) {
	c := New(map[string]string{"push": "pushed to {0}"})
	upper := c.Transform(func(template string) string { return "> " + template })

	assert.Equal(t, "> pushed to main", upper.Message("push", "main"))
	assert.Equal(t, "pushed to main", c.Message("push", "main"))
}
