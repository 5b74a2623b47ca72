package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadContent(t *testing.T) {
	c, err := LoadContent()
	require.NoError(t, err)

	assert.Equal(t, "Prateek Bansal", c.Profile.Name)
	assert.Len(t, c.Experience, 3)
	assert.Len(t, c.Projects, 2)
	assert.Len(t, c.Achievements, 2)
	assert.Equal(t, "tel:+16692604916", c.Profile.PhoneHref())

	var ids []string
	for _, s := range c.NavSections() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"about", "experience", "skills", "projects", "achievements", "contact"}, ids)

	skills := c.NavSections()[2]
	assert.Equal(t, "Skills", skills.NavLabel())
	assert.Equal(t, "Tech Stack", skills.Title)
	assert.Equal(t, "Experience", c.NavSections()[1].NavLabel())
}

func TestParseContent_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "broken yaml", doc: "profile: [name"},
		{name: "missing name", doc: "profile:\n  role: engineer\n"},
		{
			name: "duplicate section",
			doc:  validProfile + "sections:\n  - id: about\n  - id: about\n",
		},
		{
			name: "bad section id",
			doc:  validProfile + "sections:\n  - id: About-Me\n",
		},
		{
			name: "plain http link",
			doc:  validProfile + "contact:\n  links:\n    - label: Blog\n      href: http://example.com\n",
		},
		{
			name: "javascript link",
			doc:  validProfile + "achievements:\n  - title: Prize\n    link: javascript:alert(1)\n",
		},
		{
			name: "image outside static",
			doc:  validProfile + "  image: /images/me.png\n",
		},
		{
			name: "experience without company",
			doc:  validProfile + "experience:\n  - title: Engineer\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseContent([]byte(tc.doc))
			assert.Error(t, err)
		})
	}

	_, err := parseContent([]byte(validProfile))
	assert.NoError(t, err)
}

const validProfile = `profile:
  name: Test Person
  resume: https://example.com/cv.pdf
  github: https://github.com/test
  linkedin: https://www.linkedin.com/in/test
`

func TestExperience_HighlightMetrics(t *testing.T) {
	c, err := LoadContent()
	require.NoError(t, err)

	assert.Equal(t, []string{"35% latency reduction", "Reduced downtime"}, c.Experience[0].HighlightMetrics())
	assert.Equal(t, []string{"100% data consistency", "$10K+ savings/quarter"}, c.Experience[1].HighlightMetrics())
	assert.Equal(t, []string{"$700/day savings", "30min → 3min execution"}, c.Experience[2].HighlightMetrics())
	assert.Nil(t, Experience{Achievements: []Achievement{{Text: "no numbers"}}}.HighlightMetrics())
}

func TestContent_DerivedStats(t *testing.T) {
	c := &Content{
		Experience: []Experience{{Skills: []string{"Go", "SQL"}}},
		Skills:     []SkillCategory{{Category: "Languages", Skills: []string{"go", "Rust"}}},
		Projects:   []Project{{Stack: []string{"Rust", "htmx"}}},
		Achievements: []Award{
			{Title: "Cert", Link: "https://example.com/badge"},
			{Title: "Prize"},
		},
	}
	assert.Equal(t, []string{"go", "Rust", "SQL", "htmx"}, c.Technologies())
	assert.Equal(t, 1, c.Certifications())
}

func TestContactLink_External(t *testing.T) {
	assert.True(t, ContactLink{Href: "https://github.com/itsprateekbansal"}.External())
	assert.False(t, ContactLink{Href: "mailto:prateekbansal2425@gmail.com"}.External())
	assert.False(t, ContactLink{Href: "tel:+16692604916"}.External())
	assert.False(t, ContactLink{Href: "#contact"}.External())
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "💻", categoryIcon("Languages"))
	assert.Equal(t, "🗄️", categoryIcon("Databases"))
	assert.Equal(t, "•", categoryIcon("Hobbies"))

	assert.Contains(t, string(icon("github", "w-4 h-4")), `class="w-4 h-4"`)
	assert.Empty(t, string(icon("unicorn", "w-4 h-4")))

	assert.NotEqual(t, levelClass("SE2"), levelClass("Intern"))
}
