package topic

import "strings"

// Topic is a dot-separated notification name or subscription pattern.
type Topic string

// Wildcards and separator.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the topic without its last segment, or "" for a
// single-segment topic.
func (t Topic) Parent() Topic {
	if i := strings.LastIndex(string(t), Separator); i >= 0 {
		return t[:i]
	}
	return ""
}

// Base returns the last segment.
func (t Topic) Base() string {
	s := string(t)
	return s[strings.LastIndex(s, Separator)+1:]
}

// Child appends a segment.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return t + Separator + Topic(segment)
}

// IsPattern returns true if the topic contains a wildcard segment.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// IsValid returns true if the topic is non-empty and has no empty segments.
// Wildcards are allowed; use IsPattern to reject them for published topics.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches returns true if the topic matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return match(t.Segments(), pattern.Segments())
}

func match(topic, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == WildcardMulti {
			rest := pattern[1:]
			for i := 0; i <= len(topic); i++ {
				if match(topic[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(topic) == 0 || (head != WildcardSingle && head != topic[0]) {
			return false
		}
		topic, pattern = topic[1:], pattern[1:]
	}
	return len(topic) == 0
}

// Join joins segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
