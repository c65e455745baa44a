package services

import (
	"errors"
	"fuel-route-service/internal/domain"
	"slices"
	"testing"
)

func TestSelectLoad(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		requests    []domain.Request
		wantLoaded  []int // destinations
		wantSkipped []int
	}{
		{
			name:       "single fits",
			capacity:   10,
			requests:   []domain.Request{{Destination: 10, Weight: 5}},
			wantLoaded: []int{10},
		},
		{
			name:       "sorted ascending",
			capacity:   100,
			requests:   []domain.Request{{Destination: 1, Weight: 9}, {Destination: 2, Weight: 3}, {Destination: 3, Weight: 6}},
			wantLoaded: []int{2, 3, 1},
		},
		{
			name:       "exact capacity accepted",
			capacity:   9,
			requests:   []domain.Request{{Destination: 1, Weight: 4}, {Destination: 2, Weight: 5}},
			wantLoaded: []int{1, 2},
		},
		{
			name:        "stops at first overflow",
			capacity:    10,
			requests:    []domain.Request{{Destination: 1, Weight: 7}, {Destination: 2, Weight: 2}, {Destination: 3, Weight: 2}, {Destination: 4, Weight: 9}},
			wantLoaded:  []int{2, 3},
			wantSkipped: []int{1, 4},
		},
		{
			name:       "stable on equal weights",
			capacity:   6,
			requests:   []domain.Request{{Destination: 5, Weight: 2}, {Destination: 4, Weight: 2}, {Destination: 3, Weight: 2}},
			wantLoaded: []int{5, 4, 3},
		},
		{
			name:        "nothing fits",
			capacity:    1,
			requests:    []domain.Request{{Destination: 1, Weight: 2}},
			wantSkipped: []int{1},
		},
		{
			name:     "no requests",
			capacity: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.NewVehicle(1, 250, tt.capacity)
			sel, err := SelectLoad(v, tt.requests)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := destinations(sel.Loaded); !slices.Equal(got, tt.wantLoaded) {
				t.Fatalf("loaded = %v, want %v", got, tt.wantLoaded)
			}
			if got := destinations(sel.Skipped); !slices.Equal(got, tt.wantSkipped) {
				t.Fatalf("skipped = %v, want %v", got, tt.wantSkipped)
			}
			if w := domain.TotalWeight(sel.Loaded); w > tt.capacity {
				t.Fatalf("loaded weight %d exceeds capacity %d", w, tt.capacity)
			}
			for _, l := range sel.Loaded {
				for _, s := range sel.Skipped {
					if l.Weight > s.Weight {
						t.Fatalf("loaded weight %d > skipped weight %d", l.Weight, s.Weight)
					}
				}
			}
		})
	}
}

func TestSelectLoadDoesNotReorderInput(t *testing.T) {
	in := []domain.Request{{Destination: 1, Weight: 9}, {Destination: 2, Weight: 1}}
	if _, err := SelectLoad(domain.NewVehicle(1, 10, 10), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[0].Destination != 1 {
		t.Fatalf("input slice was reordered: %+v", in)
	}
}

func TestSelectLoadRejectsBadInput(t *testing.T) {
	_, err := SelectLoad(domain.NewVehicle(1, 10, 10), []domain.Request{{Destination: 1, Weight: 0}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}

	_, err = SelectLoad(domain.NewVehicle(1, 10, -1), nil)
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("err = %v, want ErrInvalidCapacity", err)
	}

	if _, err := SelectLoad(nil, nil); err == nil {
		t.Fatalf("expected error for nil vehicle")
	}
}

func destinations(reqs []domain.Request) []int {
	var out []int
	for _, r := range reqs {
		out = append(out, r.Destination)
	}
	return out
}
