package format

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type TagKind string

const (
	TagBest    TagKind = "best"
	TagTerpeca TagKind = "terpeca"
	TagOnline  TagKind = "online"
	TagTrip    TagKind = "trip"
	TagDefault TagKind = "default"
)

const terpecaPrefix = "terpeca-"

var tripTag = regexp.MustCompile(`[a-z]+-\d{4}$`)

// ClassifyTag maps every tag to exactly one kind. The order of the checks
// matters, terpeca-2020 is also shaped like a trip tag.
func ClassifyTag(tag string) TagKind {
	switch {
	case tag == "best":
		return TagBest
	case strings.HasPrefix(tag, terpecaPrefix):
		return TagTerpeca
	case tag == "online":
		return TagOnline
	case tripTag.MatchString(tag):
		return TagTrip
	}
	return TagDefault
}

func TagLabel(tag string) string {
	switch ClassifyTag(tag) {
	case TagBest:
		return "★ Best"
	case TagTerpeca:
		return "TERPECA " + strings.TrimPrefix(tag, terpecaPrefix)
	case TagOnline:
		return "Online"
	case TagTrip:
		i := strings.LastIndex(tag, "-")
		return cases.Title(language.English).String(tag[:i]) + " " + tag[i+1:]
	}
	return tag
}

type Tag struct {
	Tag   string  `json:"tag" yaml:"tag"`
	Kind  TagKind `json:"kind" yaml:"kind"`
	Label string  `json:"label" yaml:"label"`
}

func NewTag(tag string) Tag {
	return Tag{
		Tag:   tag,
		Kind:  ClassifyTag(tag),
		Label: TagLabel(tag),
	}
}

func Tags(tags []string) []Tag {
	ret := make([]Tag, len(tags))
	for i, t := range tags {
		ret[i] = NewTag(t)
	}
	return ret
}
