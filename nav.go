package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	activeSectionOffset = 150
	// the header switches to its solid style once the page scrolls past this
	scrolledOffset = 50
)

// SectionTop is the distance of a section's top edge from the viewport top.
type SectionTop struct {
	ID  string
	Top float64
}

// activeSection walks the sections bottom-up and picks the first one whose
// top has scrolled past the offset. order is the page order of section ids.
func activeSection(order []string, tops []SectionTop) string {
	byID := make(map[string]float64, len(tops))
	for _, t := range tops {
		byID[t.ID] = t.Top
	}
	for i := len(order) - 1; i >= 0; i-- {
		top, ok := byID[order[i]]
		if !ok {
			continue
		}
		if top <= activeSectionOffset {
			return order[i]
		}
	}
	if len(order) > 0 {
		return order[0]
	}
	return ""
}

// parseSectionTops reads "about:-900,experience:-20,skills:640".
func parseSectionTops(raw string) ([]SectionTop, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	tops := make([]SectionTop, 0, len(parts))
	for _, p := range parts {
		id, val, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok || id == "" {
			return nil, errors.Errorf("malformed section offset %q", p)
		}
		top, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "section %s", id)
		}
		tops = append(tops, SectionTop{ID: id, Top: top})
	}
	return tops, nil
}
