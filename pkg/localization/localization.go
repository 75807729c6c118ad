// Package localization resolves message keys into templates with positional
// {0}..{n} arguments. Templates come from YAML bundles embedded in the binary
// and can be overridden from disk.
package localization

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed bundles/*.yaml
var bundles embed.FS

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Catalog is read-only once loaded and safe for concurrent use.
type Catalog struct {
	templates map[string]string
}

func New(templates map[string]string) *Catalog {
	copied := make(map[string]string, len(templates))
	for k, v := range templates {
		copied[k] = v
	}
	return &Catalog{templates: copied}
}

// Load reads the embedded bundle of target ("discord", "irc") and, when dir
// is set and contains <target>.yaml, lays its keys over the embedded ones.
func Load(target string, dir string) (*Catalog, error) {
	name := target + ".yaml"

	embedded, err := bundles.ReadFile("bundles/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "no message bundle for %s", target)
	}
	templates, err := parse(embedded)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid embedded bundle %s", name)
	}

	if dir != "" {
		path := filepath.Join(dir, name)
		override, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "cannot read %s", path)
		}
		if err == nil {
			overrides, err := parse(override)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid bundle %s", path)
			}
			for k, v := range overrides {
				templates[k] = v
			}
		}
	}

	return &Catalog{templates: templates}, nil
}

// Message formats the template stored under key. Unknown keys render as
// ??_key_?? so a missing translation never fails a notification.
func (c *Catalog) Message(key string, args ...interface{}) string {
	template, ok := c.templates[key]
	if !ok {
		return "??_" + key + "_??"
	}
	if len(args) == 0 {
		return template
	}

	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		i, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || i >= len(args) {
			return match
		}
		return fmt.Sprint(args[i])
	})
}

// Transform returns a catalog holding fn applied to every template.
func (c *Catalog) Transform(fn func(template string) string) *Catalog {
	templates := make(map[string]string, len(c.templates))
	for k, v := range c.templates {
		templates[k] = fn(v)
	}
	return &Catalog{templates: templates}
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.templates[key]
	return ok
}

// parse flattens nested YAML mappings into dot separated keys.
func parse(data []byte) (map[string]string, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	templates := map[string]string{}
	if err := flatten("", tree, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func flatten(prefix string, node map[string]interface{}, into map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch value := v.(type) {
		case map[string]interface{}:
			if err := flatten(key, value, into); err != nil {
				return err
			}
		case string:
			into[key] = value
		case nil:
			into[key] = ""
		default:
			into[key] = fmt.Sprint(value)
		}
	}
	return nil
}
