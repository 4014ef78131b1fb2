package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equalExpense(id string, amount float64, payer Identity, members ...Identity) ExpenseForBalance {
	shares, err := ComputeSplits(amount, EqualWeights(members))
	if err != nil {
		panic(err)
	}
	exp := ExpenseForBalance{ID: id, Amount: amount, Payer: payer}
	for _, s := range RoundShares(amount, shares) {
		exp.Splits = append(exp.Splits, SplitForBalance{Email: s.Email, Name: s.Name, Amount: s.Amount})
	}
	return exp
}

func balanceOf(t *testing.T, balances []MemberBalance, id Identity) MemberBalance {
	t.Helper()
	for _, b := range balances {
		if b.Email == id.Email {
			return b
		}
	}
	t.Fatalf("no balance for %s", id.Email)
	return MemberBalance{}
}

func TestAggregateBalances_EqualSplit(t *testing.T) {
	members := []Identity{alice, bob, carol}
	expenses := []ExpenseForBalance{equalExpense("e1", 90, alice, alice, bob, carol)}

	balances := AggregateBalances(members, expenses, nil, AggregateOptions{})
	require.Len(t, balances, 3)

	a := balanceOf(t, balances, alice)
	assert.Equal(t, 90.0, a.TotalPaid)
	assert.Equal(t, 30.0, a.TotalOwed)
	assert.Equal(t, 60.0, a.NetBalance)

	assert.Equal(t, -30.0, balanceOf(t, balances, bob).NetBalance)
	assert.Equal(t, -30.0, balanceOf(t, balances, carol).NetBalance)

	// Output follows the membership order.
	assert.Equal(t, []string{alice.Email, bob.Email, carol.Email},
		[]string{balances[0].Email, balances[1].Email, balances[2].Email})
}

func TestAggregateBalances_TransferAdjustsNet(t *testing.T) {
	members := []Identity{alice, bob, carol}
	expenses := []ExpenseForBalance{equalExpense("e1", 90, alice, alice, bob, carol)}
	transfers := []TransferForBalance{{ID: "t1", From: bob, To: alice, Amount: 30}}

	balances := AggregateBalances(members, expenses, transfers, AggregateOptions{})

	a := balanceOf(t, balances, alice)
	assert.Equal(t, 30.0, a.NetBalance)
	// Transfers only move the net balance, not paid/owed totals.
	assert.Equal(t, 90.0, a.TotalPaid)
	assert.Equal(t, 30.0, a.TotalOwed)

	assert.Equal(t, 0.0, balanceOf(t, balances, bob).NetBalance)
	assert.Equal(t, -30.0, balanceOf(t, balances, carol).NetBalance)
}

func TestAggregateBalances_NoActivity(t *testing.T) {
	balances := AggregateBalances([]Identity{alice, bob}, nil, nil, AggregateOptions{})
	require.Len(t, balances, 2)
	for _, b := range balances {
		assert.Zero(t, b.TotalPaid)
		assert.Zero(t, b.TotalOwed)
		assert.Zero(t, b.NetBalance)
	}
}

func TestAggregateBalances_DuplicateMembersCollapse(t *testing.T) {
	balances := AggregateBalances([]Identity{alice, bob, alice}, nil, nil, AggregateOptions{})
	assert.Len(t, balances, 2)
}

func TestAggregateBalances_RoundsToCents(t *testing.T) {
	members := []Identity{alice, bob, carol}
	expenses := []ExpenseForBalance{{
		ID:     "e1",
		Amount: 10,
		Payer:  alice,
		Splits: []SplitForBalance{
			{Email: alice.Email, Amount: 10.0 / 3},
			{Email: bob.Email, Amount: 10.0 / 3},
			{Email: carol.Email, Amount: 10.0 / 3},
		},
	}}

	balances := AggregateBalances(members, expenses, nil, AggregateOptions{})
	assert.Equal(t, 3.33, balanceOf(t, balances, alice).TotalOwed)
	assert.Equal(t, 6.67, balanceOf(t, balances, alice).NetBalance)
	assert.Equal(t, -3.33, balanceOf(t, balances, bob).NetBalance)
}

func TestAggregate_MissingMembers(t *testing.T) {
	// Dave paid for something and later left the group.
	members := []Identity{alice, bob}
	expenses := []ExpenseForBalance{
		equalExpense("e1", 60, dave, alice, bob, dave),
		equalExpense("e2", 20, alice, alice, bob),
	}
	transfers := []TransferForBalance{{ID: "t1", From: bob, To: dave, Amount: 5}}

	t.Run("skip drops former members", func(t *testing.T) {
		report := Aggregate(members, expenses, transfers, AggregateOptions{MissingMembers: SkipMissingMembers})
		require.Len(t, report.Balances, 2)

		a := balanceOf(t, report.Balances, alice)
		assert.Equal(t, 20.0, a.TotalPaid)
		assert.Equal(t, 30.0, a.TotalOwed)
		assert.Equal(t, -10.0, a.NetBalance)

		b := balanceOf(t, report.Balances, bob)
		assert.Equal(t, 30.0, b.TotalOwed)
		// Bob's half of the transfer still counts.
		assert.Equal(t, -25.0, b.NetBalance)

		assert.Equal(t, []MissingMemberRef{
			{Email: dave.Email, Kind: "payer", SourceID: "e1"},
			{Email: dave.Email, Kind: "split", SourceID: "e1"},
			{Email: dave.Email, Kind: "transfer_to", SourceID: "t1"},
		}, report.Missing)
	})

	t.Run("include surfaces former members", func(t *testing.T) {
		report := Aggregate(members, expenses, transfers, AggregateOptions{MissingMembers: IncludeMissingMembers})
		require.Len(t, report.Balances, 3)

		d := report.Balances[2]
		assert.Equal(t, dave.Email, d.Email)
		assert.Equal(t, "Dave", d.Name)
		assert.True(t, d.Former)
		assert.Equal(t, 60.0, d.TotalPaid)
		assert.Equal(t, 20.0, d.TotalOwed)
		assert.Equal(t, 35.0, d.NetBalance)

		// With everybody included the ledger balances to zero.
		sum := 0.0
		for _, b := range report.Balances {
			sum += b.NetBalance
		}
		assert.InDelta(t, 0, sum, 1e-9)
		assert.Len(t, report.Missing, 3)
	})
}

func TestParseMissingMemberPolicy(t *testing.T) {
	p, err := ParseMissingMemberPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SkipMissingMembers, p)

	p, err = ParseMissingMemberPolicy("Include")
	require.NoError(t, err)
	assert.Equal(t, IncludeMissingMembers, p)
	assert.Equal(t, "include", p.String())

	_, err = ParseMissingMemberPolicy("reconstruct")
	assert.Error(t, err)
}

func randomLedger(rng *rand.Rand, people []Identity) ([]ExpenseForBalance, []TransferForBalance) {
	var expenses []ExpenseForBalance
	for i := 0; i < 25; i++ {
		amount := float64(1+rng.Intn(50000)) / 100
		weighted := make([]WeightedMember, len(people))
		for k, p := range people {
			weighted[k] = WeightedMember{Identity: p, Weight: rng.Intn(4)}
		}
		weighted[rng.Intn(len(people))].Weight++
		shares, err := ComputeSplits(amount, weighted)
		if err != nil {
			panic(err)
		}

		// Splits as they are stored: rounded to cents, adding up to the amount.
		exp := ExpenseForBalance{ID: string(rune('a' + i)), Amount: amount, Payer: people[rng.Intn(len(people))]}
		for _, s := range RoundShares(amount, shares) {
			exp.Splits = append(exp.Splits, SplitForBalance{Email: s.Email, Name: s.Name, Amount: s.Amount})
		}
		expenses = append(expenses, exp)
	}

	var transfers []TransferForBalance
	for i := 0; i < 8; i++ {
		from := rng.Intn(len(people))
		to := (from + 1 + rng.Intn(len(people)-1)) % len(people)
		transfers = append(transfers, TransferForBalance{
			From:   people[from],
			To:     people[to],
			Amount: float64(1+rng.Intn(10000)) / 100,
		})
	}
	return expenses, transfers
}

func TestAggregateBalances_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	people := []Identity{alice, bob, carol, dave}

	for round := 0; round < 50; round++ {
		expenses, transfers := randomLedger(rng, people)
		want := AggregateBalances(people, expenses, transfers, AggregateOptions{})

		shuffledExpenses := append([]ExpenseForBalance(nil), expenses...)
		shuffledTransfers := append([]TransferForBalance(nil), transfers...)
		rng.Shuffle(len(shuffledExpenses), func(i, j int) {
			shuffledExpenses[i], shuffledExpenses[j] = shuffledExpenses[j], shuffledExpenses[i]
		})
		rng.Shuffle(len(shuffledTransfers), func(i, j int) {
			shuffledTransfers[i], shuffledTransfers[j] = shuffledTransfers[j], shuffledTransfers[i]
		})

		got := AggregateBalances(people, shuffledExpenses, shuffledTransfers, AggregateOptions{})
		require.Equal(t, want, got, "round %d", round)
	}
}

func TestAggregateAndPlan_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	people := []Identity{alice, bob, carol, dave}
	expenses, transfers := randomLedger(rng, people)

	first := AggregateBalances(people, expenses, transfers, AggregateOptions{})
	second := AggregateBalances(people, expenses, transfers, AggregateOptions{})
	assert.Equal(t, first, second)
	assert.Equal(t, PlanSettlements(first), PlanSettlements(second))
}
