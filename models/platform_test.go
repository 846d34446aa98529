package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"linkedin", PlatformLinkedIn, false},
		{" Twitter ", PlatformTwitter, false},
		{"BLOG", PlatformBlog, false},
		{"facebook", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPlatform) {
					t.Fatalf("expected ErrUnknownPlatform, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParsePlatforms(t *testing.T) {
	got, err := ParsePlatforms(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, AllPlatforms()) {
		t.Errorf("expected all platforms, got %v", got)
	}

	got, err = ParsePlatforms([]string{"twitter", "linkedin", "twitter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []Platform{PlatformTwitter, PlatformLinkedIn}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := ParsePlatforms([]string{"linkedin", "myspace"}); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got %v", err)
	}
}
