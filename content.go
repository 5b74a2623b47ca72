package main

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

type Profile struct {
	Name        string   `yaml:"name"`
	Initials    string   `yaml:"initials"`
	Role        string   `yaml:"role"`
	Headline    string   `yaml:"headline"`
	Summary     string   `yaml:"summary"`
	Location    string   `yaml:"location"`
	Status      string   `yaml:"status"`
	Prompt      string   `yaml:"prompt"`
	Image       string   `yaml:"image"` // optional, served from /static/
	Version     string   `yaml:"version"`
	Resume      string   `yaml:"resume"`
	Email       string   `yaml:"email"`
	Phone       string   `yaml:"phone"`
	GitHub      string   `yaml:"github"`
	LinkedIn    string   `yaml:"linkedin"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Snippet     string   `yaml:"snippet"`
}

// PhoneHref strips everything but digits and the leading plus sign.
func (p Profile) PhoneHref() string {
	var b strings.Builder
	for i, r := range p.Phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}

type Section struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Label    string `yaml:"label"`
	Subtitle string `yaml:"subtitle"`
	Prompt   string `yaml:"prompt"`
	Intro    string `yaml:"intro"`
	Nav      bool   `yaml:"nav"`
}

// NavLabel is the text used in navigation, which may differ from the heading.
func (s Section) NavLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Title
}

type Achievement struct {
	Text   string `yaml:"text"`
	Metric string `yaml:"metric"`
}

type Experience struct {
	Title        string        `yaml:"title"`
	Company      string        `yaml:"company"`
	Location     string        `yaml:"location"`
	Period       string        `yaml:"period"`
	Level        string        `yaml:"level"`
	Achievements []Achievement `yaml:"achievements"`
	Skills       []string      `yaml:"skills"`
}

// HighlightMetrics returns up to two metrics, taken from the first achievements
// that carry one.
func (e Experience) HighlightMetrics() []string {
	var metrics []string
	for _, a := range e.Achievements {
		if a.Metric == "" {
			continue
		}
		metrics = append(metrics, a.Metric)
		if len(metrics) == 2 {
			break
		}
	}
	return metrics
}

type SkillCategory struct {
	Category string   `yaml:"category"`
	Skills   []string `yaml:"skills"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Tagline      string   `yaml:"tagline"`
	Badge        string   `yaml:"badge"`
	BadgeClass   string   `yaml:"badge_class"`
	Icon         string   `yaml:"icon"`
	Description  string   `yaml:"description"`
	Details      []string `yaml:"details"`
	Stack        []string `yaml:"stack"`
	GitHub       string   `yaml:"github"`
	Demo         string   `yaml:"demo"`
	Architecture string   `yaml:"architecture"`
}

type Award struct {
	Title       string `yaml:"title"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

type Education struct {
	Degree   string `yaml:"degree"`
	School   string `yaml:"school"`
	Location string `yaml:"location"`
	Period   string `yaml:"period"`
	GPA      string `yaml:"gpa"`
	Status   string `yaml:"status"`
}

type ContactLink struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// External reports whether the link leaves the site and opens in a new tab.
func (l ContactLink) External() bool {
	return isExternal(l.Href)
}

type ContactInfo struct {
	Location     string        `yaml:"location"`
	Availability string        `yaml:"availability"`
	Links        []ContactLink `yaml:"links"`
}

// Content is everything the page renders. It is loaded once at startup and
// never mutated afterwards.
type Content struct {
	Profile      Profile         `yaml:"profile"`
	Sections     []Section       `yaml:"sections"`
	Experience   []Experience    `yaml:"experience"`
	Skills       []SkillCategory `yaml:"skills"`
	Projects     []Project       `yaml:"projects"`
	Achievements []Award         `yaml:"achievements"`
	Education    []Education     `yaml:"education"`
	Contact      ContactInfo     `yaml:"contact"`
}

// LoadContent decodes and validates the embedded content document.
func LoadContent() (*Content, error) {
	return parseContent(contentYAML)
}

func parseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "decode content")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid content")
	}
	return &c, nil
}

var sectionIDPattern = regexp.MustCompile(`^[a-z]+$`)

func (c *Content) Validate() error {
	if c.Profile.Name == "" {
		return errors.New("profile name is required")
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if !sectionIDPattern.MatchString(s.ID) {
			return errors.Errorf("section id %q must be lowercase letters", s.ID)
		}
		if seen[s.ID] {
			return errors.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
	}
	for _, e := range c.Experience {
		if e.Title == "" || e.Company == "" {
			return errors.New("experience entries need a title and a company")
		}
	}
	for _, s := range c.Skills {
		if s.Category == "" {
			return errors.New("skill category needs a name")
		}
	}
	for _, p := range c.Projects {
		if p.Title == "" {
			return errors.New("project needs a title")
		}
		if err := checkHref(p.GitHub); err != nil {
			return errors.Wrapf(err, "project %s", p.Title)
		}
		if p.Demo != "" {
			if err := checkHref(p.Demo); err != nil {
				return errors.Wrapf(err, "project %s demo", p.Title)
			}
		}
	}
	for _, a := range c.Achievements {
		if a.Title == "" {
			return errors.New("achievement needs a title")
		}
		if a.Link != "" {
			if err := checkHref(a.Link); err != nil {
				return errors.Wrapf(err, "achievement %s", a.Title)
			}
		}
	}
	for _, l := range c.Contact.Links {
		if err := checkHref(l.Href); err != nil {
			return errors.Wrapf(err, "contact link %s", l.Label)
		}
	}
	if img := c.Profile.Image; img != "" && !strings.HasPrefix(img, "/static/") {
		return errors.Errorf("profile image %q must live under /static/", img)
	}
	for _, href := range []string{c.Profile.Resume, c.Profile.GitHub, c.Profile.LinkedIn} {
		if err := checkHref(href); err != nil {
			return errors.Wrap(err, "profile")
		}
	}
	return nil
}

func checkHref(href string) error {
	switch {
	case strings.HasPrefix(href, "https://"),
		strings.HasPrefix(href, "mailto:"),
		strings.HasPrefix(href, "tel:"),
		strings.HasPrefix(href, "#"):
		return nil
	}
	return errors.Errorf("unsupported link %q", href)
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// NavSections lists the sections shown in the desktop navigation, in page order.
func (c *Content) NavSections() []Section {
	var out []Section
	for _, s := range c.Sections {
		if s.Nav {
			out = append(out, s)
		}
	}
	return out
}

// Technologies is the set of distinct skill names mentioned anywhere.
func (c *Content) Technologies() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(names []string) {
		for _, n := range names {
			key := strings.ToLower(n)
			if !seen[key] {
				seen[key] = true
				out = append(out, n)
			}
		}
	}
	for _, s := range c.Skills {
		add(s.Skills)
	}
	for _, e := range c.Experience {
		add(e.Skills)
	}
	for _, p := range c.Projects {
		add(p.Stack)
	}
	return out
}

// Certifications counts the achievements that link to a certificate.
func (c *Content) Certifications() int {
	n := 0
	for _, a := range c.Achievements {
		if a.Link != "" {
			n++
		}
	}
	return n
}
