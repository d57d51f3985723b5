package stones

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValues(t *testing.T) {
	values, err := ParseValues(" 2 77706\t5847 0\n12 007 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "77706", "5847", "0", "12", "7"}, values)

	values, err = ParseValues("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012345678901234567890"}, values)

	_, err = ParseValues("1 -3")
	assert.ErrorIs(t, err, ErrInvalidStone)
	_, err = ParseValues("1 x")
	assert.ErrorIs(t, err, ErrInvalidStone)
}

func TestRewrite(t *testing.T) {
	cases := []struct {
		value       string
		left, right string
		split       bool
	}{
		{value: "0", left: "1"},
		{value: "1", left: "2024"},
		{value: "125", left: "253000"},
		{value: "99", left: "9", right: "9", split: true},
		{value: "1000", left: "10", right: "0", split: true},
		{value: "253000", left: "253", right: "0", split: true},
		{value: "120003", left: "120", right: "3", split: true},
		// Ends in zero but has an odd digit count.
		{value: "100", left: "202400"},
		// Even digit count without a trailing zero.
		{value: "1234", left: "12", right: "34", split: true},
		// Past the range of any fixed-width integer.
		{value: "18446744073709551617", left: "1844674407", right: "3709551617", split: true},
	}

	for _, tc := range cases {
		left, right, split := Rewrite(tc.value)
		assert.Equal(t, tc.split, split, "value %s", tc.value)
		assert.Equal(t, tc.left, left, "value %s", tc.value)
		if tc.split {
			assert.Equal(t, tc.right, right, "value %s", tc.value)
		}
	}
}

func TestLargeValuesKeepGrowing(t *testing.T) {
	counts, err := Simulate(context.Background(), FromValues([]string{"999999999999999"}), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4096575999999995903424"}, counts.Values())
	assert.Equal(t, "1", counts.Total().String())

	// 22 digits splits cleanly on the next blink.
	total, err := CountAfter(context.Background(), []string{"999999999999999"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "2", total.String())

	huge := strings.Repeat("7", 41)
	total, err = CountAfter(context.Background(), []string{huge}, 40)
	require.NoError(t, err)
	assert.Positive(t, total.Sign())
}

func TestBlinkSingleStep(t *testing.T) {
	next := Blink(FromValues([]string{"125"}))
	assert.Equal(t, []string{"253000"}, next.Values())

	next = Blink(FromValues([]string{"0"}))
	assert.Equal(t, []string{"1"}, next.Values())

	next = Blink(FromValues([]string{"99"}))
	assert.Equal(t, []string{"9"}, next.Values())
	assert.Equal(t, "2", next["9"].String())
	assert.Equal(t, "2", next.Total().String())
}

func TestValuesNumericOrder(t *testing.T) {
	counts := FromValues([]string{"100", "9", "20", "0"})
	assert.Equal(t, []string{"0", "9", "20", "100"}, counts.Values())
}

func TestSimulateExample(t *testing.T) {
	values := []string{"125", "17"}

	total, err := CountAfter(context.Background(), values, 6)
	require.NoError(t, err)
	assert.Equal(t, "22", total.String())

	total, err = CountAfter(context.Background(), values, 25)
	require.NoError(t, err)
	assert.Equal(t, "55312", total.String())
}

func TestSimulateDoesNotMutateInput(t *testing.T) {
	initial := FromValues([]string{"99", "99"})
	_, err := Simulate(context.Background(), initial, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"99"}, initial.Values())
	assert.Equal(t, "2", initial["99"].String())
}

func TestSimulateRoundTrip(t *testing.T) {
	ctx := context.Background()
	initial := FromValues([]string{"2", "77706", "5847", "9258441", "0", "741", "883933", "12"})

	for _, split := range []struct{ n, m int }{{0, 5}, {5, 0}, {3, 7}, {10, 15}, {25, 25}} {
		first, err := Simulate(ctx, initial, split.n)
		require.NoError(t, err)
		staged, err := Simulate(ctx, first, split.m)
		require.NoError(t, err)

		direct, err := Simulate(ctx, initial, split.n+split.m)
		require.NoError(t, err)

		assert.Equal(t, direct.Values(), staged.Values())
		assert.Zero(t, direct.Total().Cmp(staged.Total()), "n=%d m=%d", split.n, split.m)
	}
}

func TestSimulateRejectsNegativeBlinks(t *testing.T) {
	_, err := Simulate(context.Background(), FromValues([]string{"1"}), -1)
	assert.Error(t, err)
}

func TestSimulateStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, FromValues([]string{"125", "17"}), 1_000_000)
	assert.ErrorIs(t, err, context.Canceled)

	counts, err := Simulate(ctx, FromValues([]string{"125"}), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"125"}, counts.Values())
}

func TestSimulateManyBlinksStaysBounded(t *testing.T) {
	counts, err := Simulate(context.Background(), FromValues([]string{"2", "77706", "5847", "9258441", "0", "741", "883933", "12"}), 200)
	require.NoError(t, err)

	// Distinct values settle into a small closed set while the total grows.
	assert.Less(t, len(counts), 5000)
	assert.Positive(t, counts.Total().Sign())
}
