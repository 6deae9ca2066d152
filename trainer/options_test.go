package trainer

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGradBatchesUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[int]int
		wantErr bool
	}{
		{name: "flat int", in: "4", want: map[int]int{0: 4}},
		{name: "mapping", in: "{0: 2, 4: 8}", want: map[int]int{0: 2, 4: 8}},
		{name: "string scalar", in: `"four"`, wantErr: true},
		{name: "sequence", in: "[1, 2]", wantErr: true},
		{name: "non-int keys", in: "{start: 2}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gb GradBatches
			err := yaml.Unmarshal([]byte(tt.in), &gb)
			if tt.wantErr {
				if !errors.Is(err, ErrMisconfiguration) {
					t.Fatalf("Unmarshal(%q) error = %v, want ErrMisconfiguration", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.in, err)
			}
			if got := gb.Scheduling(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scheduling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMaxTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "90m", want: 90 * time.Minute},
		{in: "1h30m", want: 90 * time.Minute},
		{in: "00:12:00:00", want: 12 * time.Hour},
		{in: "01:00:05:30", want: 24*time.Hour + 5*time.Minute + 30*time.Second},
		{in: "12:00", wantErr: true},
		{in: "a:b:c:d", wantErr: true},
		{in: "00:-1:00:00", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMaxTime(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMisconfiguration) {
					t.Fatalf("ParseMaxTime(%q) error = %v, want ErrMisconfiguration", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMaxTime(%q) error: %v", tt.in, err)
			}
			if got.Duration() != tt.want {
				t.Errorf("Duration() = %v, want %v", got.Duration(), tt.want)
			}
		})
	}
}

func TestMaxTimeParts(t *testing.T) {
	got, err := MaxTimeParts(map[string]int{"days": 1, "hours": 2, "minutes": 30})
	if err != nil {
		t.Fatalf("MaxTimeParts() error: %v", err)
	}
	want := 26*time.Hour + 30*time.Minute
	if got.Duration() != want {
		t.Errorf("Duration() = %v, want %v", got.Duration(), want)
	}

	if _, err := MaxTimeParts(map[string]int{"fortnights": 1}); !errors.Is(err, ErrMisconfiguration) {
		t.Errorf("MaxTimeParts() with unknown part: error = %v, want ErrMisconfiguration", err)
	}
}

func TestMaxTimeUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", in: `"2h"`, want: 2 * time.Hour},
		{name: "clock string", in: `"00:01:00:00"`, want: time.Hour},
		{name: "parts mapping", in: "{hours: 1, minutes: 30}", want: 90 * time.Minute},
		{name: "sequence", in: "[1, 2]", wantErr: true},
		{name: "bad part", in: "{eons: 1}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mt MaxTime
			err := yaml.Unmarshal([]byte(tt.in), &mt)
			if tt.wantErr {
				if !errors.Is(err, ErrMisconfiguration) {
					t.Fatalf("Unmarshal(%q) error = %v, want ErrMisconfiguration", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.in, err)
			}
			if mt.Duration() != tt.want {
				t.Errorf("Duration() = %v, want %v", mt.Duration(), tt.want)
			}
		})
	}
}
