package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"repairdesk/internal/logger"
)

const (
	categoryMarker = "CATEGORY:"
	seriesMarker   = "SERIES:"
)

// ParseYAML decodes a YAML catalog. Unknown keys are rejected so typos do
// not silently drop data.
func ParseYAML(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
		for j, s := range cat.Series {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("categories[%d].series[%d]: name is required", i, j)
			}
			for k, m := range s.Models {
				if strings.TrimSpace(m.Name) == "" {
					return fmt.Errorf("categories[%d].series[%d].models[%d]: name is required", i, j, k)
				}
			}
		}
	}
	for i, inj := range c.Injuries {
		if strings.TrimSpace(inj.Name) == "" {
			return fmt.Errorf("injuries[%d]: name is required", i)
		}
	}
	return nil
}

// ParseHTML reads a storefront options fragment. Comments of the form
// <!-- CATEGORY:Phones --> and <!-- SERIES:Galaxy S --> select where the
// following <option value="SKU" data-guid="GUID">Label</option> entries
// belong. Options seen before any series marker are skipped.
func ParseHTML(r io.Reader) (*Catalog, error) {
	log := logger.Get()
	c := &Catalog{}

	var (
		category *CategorySpec
		series   *SeriesSpec
		option   *ModelSpec
		label    strings.Builder
	)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return c, nil
			}
			return nil, fmt.Errorf("invalid options file: %w", z.Err())

		case html.CommentToken:
			text := strings.TrimSpace(string(z.Text()))
			if name, ok := marker(text, categoryMarker); ok {
				c.Categories = append(c.Categories, CategorySpec{Name: name})
				category = &c.Categories[len(c.Categories)-1]
				series = nil
			} else if name, ok := marker(text, seriesMarker); ok {
				if category == nil {
					log.Warnw("series marker before any category, skipping", "series", name)
					series = nil
					continue
				}
				category.Series = append(category.Series, SeriesSpec{Name: name})
				series = &category.Series[len(category.Series)-1]
			}

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "option" {
				continue
			}
			option = &ModelSpec{}
			label.Reset()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "value":
					option.SKU = strings.TrimSpace(string(val))
				case "data-guid":
					option.GUID = strings.TrimSpace(string(val))
				}
			}

		case html.TextToken:
			if option != nil {
				label.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) != "option" || option == nil {
				continue
			}
			option.Name = strings.TrimSpace(label.String())
			switch {
			case option.Name == "":
			case series == nil:
				log.Warnw("option outside a series, skipping", "model", option.Name)
			default:
				series.Models = append(series.Models, *option)
			}
			option = nil
		}
	}
}

// marker reports the name carried by a comment such as "CATEGORY: Phones".
// The prefix is matched case-insensitively.
func marker(comment, prefix string) (string, bool) {
	if len(comment) < len(prefix) || !strings.EqualFold(comment[:len(prefix)], prefix) {
		return "", false
	}
	name := strings.TrimSpace(comment[len(prefix):])
	return name, name != ""
}
