package perm

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestRankIndicesRoundTrip(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for r := int64(0); r < factorials[n]; r++ {
			p, err := Indices(r, n)
			if err != nil {
				t.Fatal(err)
			}
			got, err := RankIndices(p)
			if err != nil {
				t.Fatalf("RankIndices(%v) error = %v", p, err)
			}
			if got != r {
				t.Errorf("RankIndices(Indices(%d, %d)) = %d", r, n, got)
			}
		}
	}
}

func TestRankIndicesSampled(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 7; n <= MaxN; n++ {
		for i := 0; i < 50; i++ {
			r := rng.Int64N(factorials[n])
			p, err := Indices(r, n)
			if err != nil {
				t.Fatal(err)
			}
			got, err := RankIndices(p)
			if err != nil || got != r {
				t.Errorf("RankIndices(Indices(%d, %d)) = %d, %v", r, n, got, err)
			}
		}
	}
}

func TestRankIndicesErrors(t *testing.T) {
	tests := []struct {
		name string
		perm []int
		want error
	}{
		{"nil", nil, ErrNilInput},
		{"repeated", []int{0, 0, 1}, ErrInvalidInput},
		{"negative", []int{0, -1}, ErrInvalidInput},
		{"too large", []int{0, 2}, ErrInvalidInput},
		{"too long", Seq(MaxN + 1), ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RankIndices(tt.perm); !errors.Is(err, tt.want) {
				t.Errorf("RankIndices(%v) error = %v, want %v", tt.perm, err, tt.want)
			}
		})
	}

	if r, err := RankIndices([]int{}); err != nil || r != 0 {
		t.Errorf("RankIndices([]) = %d, %v; want 0", r, err)
	}
}

func TestRankOf(t *testing.T) {
	tests := []struct {
		perm []string
		want int64
	}{
		{[]string{"A", "B", "C"}, 0},
		{[]string{"A", "C", "B"}, 1},
		{[]string{"B", "C", "A"}, 3},
		{[]string{"C", "B", "A"}, 5},
	}
	for _, tt := range tests {
		got, err := RankOf(abc, tt.perm)
		if err != nil {
			t.Fatalf("RankOf(%v) error = %v", tt.perm, err)
		}
		if got != tt.want {
			t.Errorf("RankOf(%v) = %d, want %d", tt.perm, got, tt.want)
		}
	}
}

func TestRankOfDuplicates(t *testing.T) {
	items := []string{"x", "x", "y"}
	// Ranks 1 and 3 both spell xyx; the smaller one is reported.
	got, err := RankOf(items, []string{"x", "y", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("RankOf(xyx) = %d, want 1", got)
	}
}

func TestRankOfErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		perm  []string
		want  error
	}{
		{"nil items", nil, []string{"A"}, ErrNilInput},
		{"nil perm", abc, nil, ErrNilInput},
		{"short perm", abc, []string{"A", "B"}, ErrInvalidInput},
		{"foreign element", abc, []string{"A", "B", "Z"}, ErrInvalidInput},
		{"repeated element", abc, []string{"A", "A", "B"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RankOf(tt.items, tt.perm); !errors.Is(err, tt.want) {
				t.Errorf("RankOf(%v, %v) error = %v, want %v", tt.items, tt.perm, err, tt.want)
			}
		})
	}
}
