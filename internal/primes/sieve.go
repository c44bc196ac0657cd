// Package primes computes the set of primes up to a bound.
package primes

import (
	"context"
	"errors"
	"fmt"

	"primal/internal/job"
)

// ErrNegativeBound is returned by Validate for a bound below zero.
var ErrNegativeBound = errors.New("primes: negative bound")

// Set is the set of primes in [2, Bound()]. It is read-only once built.
type Set struct {
	bound  int
	marked []bool // marked[i] reports whether i is prime
	primes []int  // ascending
}

// Validate checks that n is usable as a sieve bound.
func Validate(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeBound, n)
	}
	return nil
}

// Sieve runs the Sieve of Eratosthenes up to n inclusive.
//
// ctx is polled once per candidate p of the outer loop. When it is
// cancelled, Sieve stops immediately and returns (nil, job.Cancelled).
// A negative n is treated like 0 and yields an empty set; callers are
// expected to Validate first.
func Sieve(ctx context.Context, n int) (*Set, job.State) {
	if n < 2 {
		return &Set{bound: max(n, 0)}, job.Completed
	}
	marked := make([]bool, n+1)
	for i := 2; i <= n; i++ {
		marked[i] = true
	}
	for p := 2; p*p <= n; p++ {
		if job.Stopped(ctx) {
			return nil, job.Cancelled
		}
		if !marked[p] {
			continue
		}
		for i := p * p; i <= n; i += p {
			marked[i] = false
		}
	}
	// the outer loop never runs for n < 4
	if job.Stopped(ctx) {
		return nil, job.Cancelled
	}
	var list []int
	for i := 2; i <= n; i++ {
		if marked[i] {
			list = append(list, i)
		}
	}
	return &Set{bound: n, marked: marked, primes: list}, job.Completed
}

// Bound returns the inclusive upper bound the set was sieved to.
func (s *Set) Bound() int { return s.bound }

// Len returns the number of primes in the set.
func (s *Set) Len() int { return len(s.primes) }

// Contains reports whether n is a prime within the bound.
func (s *Set) Contains(n int) bool {
	if n < 0 || n >= len(s.marked) {
		return false
	}
	return s.marked[n]
}

// Max returns the largest prime in the set, or 0 if it is empty.
func (s *Set) Max() int {
	if len(s.primes) == 0 {
		return 0
	}
	return s.primes[len(s.primes)-1]
}

// Primes returns the primes in ascending order. The slice is shared and
// must not be modified.
func (s *Set) Primes() []int { return s.primes }

// All iterates the primes in ascending order.
func (s *Set) All(yield func(int) bool) {
	for _, p := range s.primes {
		if !yield(p) {
			return
		}
	}
}

// Ratio returns the share of integers in [1, Bound()] that are prime.
func (s *Set) Ratio() float64 {
	if s.bound < 1 {
		return 0
	}
	return float64(len(s.primes)) / float64(s.bound)
}
