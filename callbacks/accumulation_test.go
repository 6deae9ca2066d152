package callbacks

import (
	"reflect"
	"testing"
)

func TestNewGradientAccumulationScheduler(t *testing.T) {
	tests := []struct {
		name       string
		scheduling map[int]int
		wantErr    bool
		want       map[int]int
	}{
		{
			name:    "empty",
			wantErr: true,
		},
		{
			name:       "negative epoch",
			scheduling: map[int]int{-2: 4},
			wantErr:    true,
		},
		{
			name:       "factor below one",
			scheduling: map[int]int{0: 0},
			wantErr:    true,
		},
		{
			name:       "valid",
			scheduling: map[int]int{0: 2, 4: 8},
			want:       map[int]int{0: 2, 4: 8},
		},
		{
			name:       "epoch zero implied",
			scheduling: map[int]int{3: 8},
			want:       map[int]int{0: 1, 3: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewGradientAccumulationScheduler(tt.scheduling)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := s.Scheduling(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scheduling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchesForEpoch(t *testing.T) {
	s, err := NewGradientAccumulationScheduler(map[int]int{0: 1, 2: 4, 10: 16})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		epoch int
		want  int
	}{
		{0, 1},
		{1, 1},
		{2, 4},
		{9, 4},
		{10, 16},
		{100, 16},
	}
	for _, tt := range tests {
		if got := s.BatchesForEpoch(tt.epoch); got != tt.want {
			t.Errorf("BatchesForEpoch(%d) = %d, want %d", tt.epoch, got, tt.want)
		}
	}
}
