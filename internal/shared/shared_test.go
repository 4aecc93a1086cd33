package shared

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestTrackID(t *testing.T) {
	pathElem := regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	a, b := TrackID(), TrackID()
	if a == b {
		t.Errorf("TrackID() returned duplicate ids %v", a)
	}

	for _, id := range []string{a, b} {
		if !strings.HasPrefix(id, TrackIDPrefix) {
			t.Errorf("TrackID() = %v, want prefix %v", id, TrackIDPrefix)
		}
		if elem := strings.TrimPrefix(id, TrackIDPrefix); !pathElem.MatchString(elem) {
			t.Errorf("TrackID() element %q is not a valid object path element", elem)
		}
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	tc := []struct {
		name    string
		config  LogConfig
		want    string
		wantNot string
	}{
		{
			name:   "json formatter",
			config: LogConfig{Level: "info", Format: "json"},
			want:   `"msg":"published"`,
		},
		{
			name:    "level filters debug",
			config:  LogConfig{Level: "warn", Format: "logfmt"},
			wantNot: "published",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLoggerFromConfig(&buf, tt.config)
			l.Info("published", "scope", "Player")

			got := buf.String()
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("log output %q does not contain %q", got, tt.want)
			}
			if tt.wantNot != "" && strings.Contains(got, tt.wantNot) {
				t.Errorf("log output %q should not contain %q", got, tt.wantNot)
			}
		})
	}
}
