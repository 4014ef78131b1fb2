package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = Identity{Email: "alice@example.com", Name: "Alice"}
	bob   = Identity{Email: "bob@example.com", Name: "Bob"}
	carol = Identity{Email: "carol@example.com", Name: "Carol"}
	dave  = Identity{Email: "dave@example.com", Name: "Dave"}
)

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		members      []WeightedMember
		wantErr      bool
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name:    "equal three-way split",
			total:   90,
			members: EqualWeights([]Identity{alice, bob, carol}),
			validateFunc: func(t *testing.T, shares []Share) {
				require.Len(t, shares, 3)
				for _, s := range shares {
					assert.InDelta(t, 30.0, s.Amount, 1e-9, s.Email)
					assert.Equal(t, 1, s.Weight)
				}
			},
		},
		{
			name:  "weighted 3:1 split",
			total: 100,
			members: []WeightedMember{
				{Identity: alice, Weight: 3},
				{Identity: bob, Weight: 1},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				// Alice: 100 * 3/4 = 75, Bob: 100 * 1/4 = 25
				assert.Equal(t, alice, shares[0].Identity)
				assert.InDelta(t, 75.0, shares[0].Amount, 1e-9)
				assert.InDelta(t, 25.0, shares[1].Amount, 1e-9)
			},
		},
		{
			name:  "zero weight member owes nothing",
			total: 50,
			members: []WeightedMember{
				{Identity: alice, Weight: 0},
				{Identity: bob, Weight: 2},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				assert.Zero(t, shares[0].Amount)
				assert.InDelta(t, 50.0, shares[1].Amount, 1e-9)
			},
		},
		{
			name:    "thirds are not rounded",
			total:   100,
			members: EqualWeights([]Identity{alice, bob, carol}),
			validateFunc: func(t *testing.T, shares []Share) {
				assert.InDelta(t, 100.0/3.0, shares[0].Amount, 1e-12)
			},
		},
		{
			name:    "no members should error",
			total:   10,
			members: nil,
			wantErr: true,
		},
		{
			name:  "all zero weights should error",
			total: 10,
			members: []WeightedMember{
				{Identity: alice, Weight: 0},
				{Identity: bob, Weight: 0},
			},
			wantErr: true,
		},
		{
			name:    "negative weight should error",
			total:   10,
			members: []WeightedMember{{Identity: alice, Weight: -1}, {Identity: bob, Weight: 2}},
			wantErr: true,
		},
		{
			name:    "weight above the maximum should error",
			total:   100,
			members: []WeightedMember{{Identity: alice, Weight: MaxWeight + 1}, {Identity: bob, Weight: 1}},
			wantErr: true,
		},
		{
			name:  "huge weights should error instead of overflowing",
			total: 100,
			members: []WeightedMember{
				{Identity: alice, Weight: math.MaxInt},
				{Identity: bob, Weight: math.MaxInt},
			},
			wantErr: true,
		},
		{
			name:  "maximum weights split evenly",
			total: 100,
			members: []WeightedMember{
				{Identity: alice, Weight: MaxWeight},
				{Identity: bob, Weight: MaxWeight},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				assert.InDelta(t, 50.0, shares[0].Amount, 1e-9)
				assert.InDelta(t, 50.0, shares[1].Amount, 1e-9)
			},
		},
		{
			name:    "non-positive total should error",
			total:   0,
			members: EqualWeights([]Identity{alice}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeSplits(tt.total, tt.members)
			if tt.wantErr {
				var splitErr *InvalidSplitError
				require.True(t, errors.As(err, &splitErr), "want InvalidSplitError, got %v", err)
				return
			}
			require.NoError(t, err)
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestComputeSplits_SumsToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	people := []Identity{alice, bob, carol, dave}

	for i := 0; i < 500; i++ {
		total := math.Round(rng.Float64()*100000) / 100
		if total == 0 {
			total = 0.01
		}
		members := make([]WeightedMember, 1+rng.Intn(len(people)))
		for k := range members {
			members[k] = WeightedMember{Identity: people[k], Weight: rng.Intn(7)}
		}
		members[0].Weight++ // keep the sum positive

		shares, err := ComputeSplits(total, members)
		require.NoError(t, err)

		sum := 0.0
		for _, s := range shares {
			sum += s.Amount
		}
		assert.InDelta(t, total, sum, 1e-9, "total %v weights %v", total, members)
	}
}

func TestRoundShares(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		weights []int
		want    []float64
	}{
		{
			name:    "leftover cent goes to the first share",
			total:   100,
			weights: []int{1, 1, 1},
			want:    []float64{33.34, 33.33, 33.33},
		},
		{
			name:    "leftover cents follow the largest remainders",
			total:   0.05,
			weights: []int{1, 1, 1},
			want:    []float64{0.02, 0.02, 0.01},
		},
		{
			name:    "exact split is untouched",
			total:   100,
			weights: []int{3, 1},
			want:    []float64{75, 25},
		},
		{
			name:    "larger remainder wins over position",
			total:   10,
			weights: []int{1, 2},
			want:    []float64{3.33, 6.67},
		},
		{
			name:    "zero weight first share stays at zero",
			total:   1,
			weights: []int{0, 1, 1, 1},
			want:    []float64{0, 0.34, 0.33, 0.33},
		},
		{
			name:    "zero weight first share of two cents",
			total:   0.02,
			weights: []int{0, 1, 1, 1},
			want:    []float64{0, 0.01, 0.01, 0},
		},
		{
			name:    "more people than cents never goes negative",
			total:   0.02,
			weights: []int{1, 1, 1, 1},
			want:    []float64{0.01, 0.01, 0, 0},
		},
	}

	people := []Identity{alice, bob, carol, dave}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := make([]WeightedMember, len(tt.weights))
			for i, w := range tt.weights {
				members[i] = WeightedMember{Identity: people[i], Weight: w}
			}
			shares, err := ComputeSplits(tt.total, members)
			require.NoError(t, err)

			rounded := RoundShares(tt.total, shares)
			got := make([]float64, len(rounded))
			for i, s := range rounded {
				got[i] = s.Amount
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rounded amounts always add up to the total", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 300; i++ {
			total := float64(1+rng.Intn(1000000)) / 100
			members := []WeightedMember{
				{Identity: alice, Weight: rng.Intn(5)},
				{Identity: bob, Weight: rng.Intn(5)},
				{Identity: carol, Weight: 1 + rng.Intn(5)},
			}
			shares, err := ComputeSplits(total, members)
			require.NoError(t, err)

			cents := int64(0)
			for k, s := range RoundShares(total, shares) {
				assert.GreaterOrEqual(t, s.Amount, 0.0)
				assert.InDelta(t, shares[k].Amount, s.Amount, 0.01+1e-9, "total %v", total)
				if s.Weight == 0 {
					assert.Zero(t, s.Amount, "total %v", total)
				}
				cents += int64(math.Round(s.Amount * 100))
			}
			assert.Equal(t, int64(math.Round(total*100)), cents, "total %v", total)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, RoundShares(10, nil))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, -2.5, Round2(-2.499999))
	assert.Equal(t, 33.33, Round2(100.0/3.0))
}
