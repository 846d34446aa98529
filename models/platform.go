package models

import (
	"errors"
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformBlog     Platform = "blog"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// AllPlatforms returns every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformTwitter, PlatformBlog}
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformBlog:
		return true
	}
	return false
}

// ParsePlatform looks up a platform identifier, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

// ParsePlatforms parses a list of identifiers, dropping duplicates. An empty
// list means every platform.
func ParsePlatforms(values []string) ([]Platform, error) {
	if len(values) == 0 {
		return AllPlatforms(), nil
	}

	seen := make(map[Platform]bool, len(values))
	out := make([]Platform, 0, len(values))
	for _, v := range values {
		p, err := ParsePlatform(v)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}
