package term

import "testing"

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want Environment
	}{
		{
			name: "plain tty",
			env:  map[string]string{"TERM": "xterm-256color"},
			tty:  true,
			want: Environment{RichAvailable: true},
		},
		{
			name: "not a tty",
			env:  map[string]string{"TERM": "xterm-256color"},
			tty:  false,
			want: Environment{},
		},
		{
			name: "dumb terminal",
			env:  map[string]string{"TERM": "dumb"},
			tty:  true,
			want: Environment{},
		},
		{
			name: "NO_COLOR disables rich",
			env:  map[string]string{"TERM": "xterm", "NO_COLOR": "1"},
			tty:  true,
			want: Environment{},
		},
		{
			name: "constrained host",
			env:  map[string]string{"TERM": "xterm", "COLAB_GPU": "1"},
			tty:  true,
			want: Environment{RichAvailable: true, ConstrainedHost: true},
		},
		{
			name: "constrained host override",
			env:  map[string]string{"QUARRY_CONSTRAINED_HOST": "1"},
			tty:  false,
			want: Environment{ConstrainedHost: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string { return tt.env[key] }
			got := DetectFrom(getenv, tt.tty)
			if got != tt.want {
				t.Errorf("DetectFrom() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
