// Package content serves the static marketing pages: blog, FAQ and contacts.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrBadSeed = errors.New("bad content seed")

type Post struct {
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Excerpt     string    `json:"excerpt" yaml:"excerpt"`
	Body        string    `json:"body,omitempty" yaml:"body"`
	Author      string    `json:"author" yaml:"author"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Tags        []string  `json:"tags" yaml:"tags"`
}

type FAQ struct {
	Topic    string `json:"topic" yaml:"topic"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type Contacts struct {
	Phones  []string          `json:"phones" yaml:"phones"`
	Email   string            `json:"email" yaml:"email"`
	Address string            `json:"address" yaml:"address"`
	Hours   string            `json:"hours" yaml:"hours"`
	Social  map[string]string `json:"social" yaml:"social"`
}

//go:embed seed/content.yaml
var seedYAML []byte

type Library struct {
	posts    []Post
	faq      []FAQ
	contacts Contacts
}

type seedFile struct {
	Posts    []Post   `yaml:"posts"`
	FAQ      []FAQ    `yaml:"faq"`
	Contacts Contacts `yaml:"contacts"`
}

func Load() (*Library, error) {
	return parse(seedYAML)
}

func parse(raw []byte) (*Library, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}

	seen := make(map[string]struct{}, len(f.Posts))
	for _, p := range f.Posts {
		if p.Slug == "" {
			return nil, fmt.Errorf("%w: post without slug", ErrBadSeed)
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate post slug %q", ErrBadSeed, p.Slug)
		}
		seen[p.Slug] = struct{}{}
	}

	posts := append([]Post(nil), f.Posts...)
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].PublishedAt.After(posts[j].PublishedAt) })

	return &Library{posts: posts, faq: f.FAQ, contacts: f.Contacts}, nil
}

// Posts lists posts newest first without bodies, optionally by tag.
func (l *Library) Posts(tag string) []Post {
	out := make([]Post, 0, len(l.posts))
	for _, p := range l.posts {
		if tag != "" && !hasTag(p.Tags, tag) {
			continue
		}
		p.Body = ""
		out = append(out, p)
	}
	return out
}

func (l *Library) Post(slug string) (Post, bool) {
	for _, p := range l.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

func (l *Library) FAQ(topic string) []FAQ {
	out := make([]FAQ, 0, len(l.faq))
	for _, q := range l.faq {
		if topic == "" || strings.EqualFold(q.Topic, topic) {
			out = append(out, q)
		}
	}
	return out
}

func (l *Library) Contacts() Contacts { return l.contacts }

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
