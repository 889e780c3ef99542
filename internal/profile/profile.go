// Package profile holds the per-session preferences the match engine scores against.
package profile

import (
	"sort"
	"strings"
)

// Size is the preferred dog size band.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Profile accumulates everything learned about one user during a session. Tags form a set.
type Profile struct {
	tags map[string]struct{}

	Size    Size
	Care    bool
	Summary string
}

// New returns an empty profile with the default preferences.
func New() *Profile {
	return &Profile{
		tags: make(map[string]struct{}),
		Size: SizeMedium,
	}
}

// AddTags adds tags to the set. Blank tags are ignored.
func (p *Profile) AddTags(tags ...string) {
	if p.tags == nil {
		p.tags = make(map[string]struct{})
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		p.tags[tag] = struct{}{}
	}
}

func (p *Profile) HasTag(tag string) bool {
	_, ok := p.tags[tag]
	return ok
}

// Tags returns the tag set sorted.
func (p *Profile) Tags() []string {
	tags := make([]string, 0, len(p.tags))
	for tag := range p.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (p *Profile) Len() int {
	return len(p.tags)
}

// ClearAnalysis drops the photo analysis summary together with every collected tag.
func (p *Profile) ClearAnalysis() {
	p.tags = make(map[string]struct{})
	p.Summary = ""
}

// Reset returns the profile to the state New produces.
func (p *Profile) Reset() {
	p.ClearAnalysis()
	p.Size = SizeMedium
	p.Care = false
}

// Clone returns an independent copy.
func (p *Profile) Clone() *Profile {
	c := New()
	c.AddTags(p.Tags()...)
	c.Size = p.Size
	c.Care = p.Care
	c.Summary = p.Summary
	return c
}
