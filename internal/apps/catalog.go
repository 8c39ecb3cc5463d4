// Package apps serves the app launcher tiles from a TOML catalog.
package apps

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownCategory is returned for categories absent from the catalog.
var ErrUnknownCategory = errors.New("unknown app category")

// App is one launcher tile. A zero App is a placeholder filling the grid.
type App struct {
	Category string `toml:"category" json:"-"`
	Name     string `toml:"name" json:"name"`
	Desc     string `toml:"desc" json:"desc,omitempty"`
	Img      string `toml:"img" json:"img"`
	URL      string `toml:"url" json:"url"`
}

// Placeholder reports whether the tile only pads the grid.
func (a App) Placeholder() bool {
	return a.Name == "" && a.URL == ""
}

// Host returns the hostname shown under the tile title.
func (a App) Host() string {
	if a.URL == "" {
		return ""
	}
	u, err := url.Parse(a.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Catalog is the parsed catalog file.
type Catalog struct {
	Apps []App `toml:"apps"`
}

// Load reads the catalog at path. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	var c Catalog
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &c, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("decode app catalog: %w", err)
	}
	for i := range c.Apps {
		c.Apps[i].Category = strings.ToLower(strings.TrimSpace(c.Apps[i].Category))
		if c.Apps[i].URL != "" {
			if _, err := url.ParseRequestURI(c.Apps[i].URL); err != nil {
				return nil, fmt.Errorf("app %q: invalid url: %w", c.Apps[i].Name, err)
			}
		}
	}
	return &c, nil
}

// Categories lists the categories in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{}
	for _, app := range c.Apps {
		if app.Category != "" && !slices.Contains(out, app.Category) {
			out = append(out, app.Category)
		}
	}
	return out
}

// ByCategory returns the apps of category padded with placeholders up to gridSize.
func (c *Catalog) ByCategory(category string, gridSize int) ([]App, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if !slices.Contains(c.Categories(), category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	var out []App
	for _, app := range c.Apps {
		if app.Category == category {
			out = append(out, app)
		}
	}
	for len(out) < gridSize {
		out = append(out, App{})
	}
	return out, nil
}
