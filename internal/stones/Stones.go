// Package stones simulates blinking at a row of engraved stones. Stones
// are tracked as value multiplicities and never materialised one by one.
// Values are kept as canonical decimal strings so they can grow without
// bound.
package stones

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

var growthFactor = big.NewInt(2024)

var ErrInvalidStone = errors.New("invalid stone value")

// Counts maps a stone value, in canonical decimal form, to how many stones
// carry it.
type Counts map[string]*big.Int

// ParseValues reads whitespace separated non-negative integers of any size
// and returns them in canonical form.
func ParseValues(text string) ([]string, error) {
	fields := strings.Fields(text)
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		n, ok := new(big.Int).SetString(field, 10)
		if !ok || n.Sign() < 0 {
			return nil, fmt.Errorf("%w %q", ErrInvalidStone, field)
		}
		values = append(values, n.String())
	}
	return values, nil
}

// FromValues counts canonical values as produced by ParseValues.
func FromValues(values []string) Counts {
	counts := make(Counts, len(values))
	for _, v := range values {
		counts.add(v, big.NewInt(1))
	}
	return counts
}

func (c Counts) add(value string, n *big.Int) {
	if existing, ok := c[value]; ok {
		existing.Add(existing, n)
		return
	}
	c[value] = new(big.Int).Set(n)
}

// Total is the number of stones, counting duplicates.
func (c Counts) Total() *big.Int {
	total := new(big.Int)
	for _, n := range c {
		total.Add(total, n)
	}
	return total
}

// Values returns the distinct stone values in ascending numeric order.
func (c Counts) Values() []string {
	values := make([]string, 0, len(c))
	for v := range c {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if len(values[i]) != len(values[j]) {
			return len(values[i]) < len(values[j])
		}
		return values[i] < values[j]
	})
	return values
}

// Clone returns a deep copy, so the result can be blinked independently.
func (c Counts) Clone() Counts {
	clone := make(Counts, len(c))
	for v, n := range c {
		clone[v] = new(big.Int).Set(n)
	}
	return clone
}

func trimLeadingZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// Rewrite applies the blink rule to one canonical value. When split is true
// the stone became two stones, left and right; otherwise left is the new
// value.
func Rewrite(v string) (left, right string, split bool) {
	if v == "0" {
		return "1", "", false
	}

	if len(v)%2 == 0 {
		half := len(v) / 2
		return v[:half], trimLeadingZeros(v[half:]), true
	}

	n, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic(fmt.Sprintf("stones: rewrite of non-canonical value %q", v))
	}
	return n.Mul(n, growthFactor).String(), "", false
}

// Blink applies one rewrite step to every stone.
func Blink(c Counts) Counts {
	next := make(Counts, len(c)*2)
	for v, n := range c {
		left, right, split := Rewrite(v)
		next.add(left, n)
		if split {
			next.add(right, n)
		}
	}
	return next
}

// Simulate blinks the given number of times, stopping early if ctx is done.
// initial is left untouched.
func Simulate(ctx context.Context, initial Counts, blinks int) (Counts, error) {
	if blinks < 0 {
		return nil, fmt.Errorf("negative blink count %d", blinks)
	}

	current := initial.Clone()
	for i := 0; i < blinks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("blink %d: %w", i+1, err)
		}
		current = Blink(current)
	}
	return current, nil
}

// CountAfter is shorthand for the total stone count after blinks.
func CountAfter(ctx context.Context, values []string, blinks int) (*big.Int, error) {
	counts, err := Simulate(ctx, FromValues(values), blinks)
	if err != nil {
		return nil, err
	}
	return counts.Total(), nil
}
