// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stencil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBulk(t *testing.T) {
	c := Select([4]bool{false, false, false, false}, [4]bool{false, false, false, false})
	assert.Equal(t, Middle, c)
}

func TestSelectSides(t *testing.T) {
	cases := []struct {
		adjacent [4]bool
		want     Class
	}{
		{[4]bool{true, false, false, false}, Side1},
		{[4]bool{false, true, false, false}, Side2},
		{[4]bool{false, false, true, false}, Side3},
		{[4]bool{false, false, false, true}, Side4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Select(tc.adjacent, [4]bool{}))
	}
}

func TestSelectCorners(t *testing.T) {
	cases := []struct {
		adjacent [4]bool
		want     Class
	}{
		{[4]bool{true, false, true, false}, Corner1},  // N,W
		{[4]bool{false, true, false, true}, Corner2},  // S,E
		{[4]bool{true, false, false, true}, Corner3},  // N,E
		{[4]bool{false, true, true, false}, Corner4},  // S,W
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Select(tc.adjacent, [4]bool{}))
	}
}

func TestSelectInverseCorners(t *testing.T) {
	cases := []struct {
		diagonal [4]bool
		want     Class
	}{
		{[4]bool{true, false, false, false}, InvCorner1}, // NW
		{[4]bool{false, true, false, false}, InvCorner2}, // NE
		{[4]bool{false, false, true, false}, InvCorner3}, // SW
		{[4]bool{false, false, false, true}, InvCorner4}, // SE
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Select([4]bool{}, tc.diagonal))
	}
}

func TestSelectFallback(t *testing.T) {
	// three adjacent Neumann neighbours is not one of the thirteen
	// named cases; must fall back to Middle.
	c := Select([4]bool{true, true, true, false}, [4]bool{})
	assert.Equal(t, Middle, c)
}

func TestApplyBulkIsWeightedAverage(t *testing.T) {
	v := [4]float64{1, 2, 3, 4}
	w := [4]float64{1, 1, 1, 1}
	assert.InDelta(t, 2.5, Apply(Middle, v, w), 1e-12)
}

func TestApplyCornerWeightsSurvivors(t *testing.T) {
	v := [4]float64{10, 20, 30, 40}
	w := [4]float64{9, 2, 9, 6}
	// Corner1 keeps S (idx1) and E (idx3), weighted by w
	want := (20.0*2 + 40.0*6) / (2 + 6)
	assert.InDelta(t, want, Apply(Corner1, v, w), 1e-12)
}

func TestApplySideDoublesOpposite(t *testing.T) {
	v := [4]float64{1, 1, 1, 1}
	w := [4]float64{1, 1, 1, 1}
	// uniform potentials & weights: doubling doesn't change the result
	assert.InDelta(t, 1.0, Apply(Side1, v, w), 1e-12)

	v2 := [4]float64{0, 10, 0, 0} // N missing, S is opposite and doubled
	w2 := [4]float64{1, 1, 1, 1}
	got := Apply(Side1, v2, w2)
	// den = 2(S) + 1(W) + 1(E) = 4; num = 2*10 = 20
	assert.InDelta(t, 20.0/4.0, got, 1e-12)
}

func TestApplyInvCornerDoublesOppositePair(t *testing.T) {
	v := [4]float64{2, 3, 4, 5} // N, S, W, E
	w := [4]float64{1, 1, 1, 1}
	got := Apply(InvCorner1, v, w) // NW diagonal Neumann: S and E doubled
	num := 2*1 + 2*3*1 + 4*1 + 2*5*1
	den := 1 + 2*1 + 1 + 2*1
	assert.InDelta(t, float64(num)/float64(den), got, 1e-12)

	// the doubled pair is multiplicative: unequal weights scale the
	// doubled terms by the neighbour's own weight
	w2 := [4]float64{1, 3, 1, 2}
	got2 := Apply(InvCorner4, v, w2) // SE diagonal Neumann: N and W doubled
	num2 := 2*2*1 + 3*3 + 2*4*1 + 5*2
	den2 := 2*1 + 3 + 2*1 + 2
	assert.InDelta(t, float64(num2)/float64(den2), got2, 1e-12)
}

func TestApplyCoefficientTable(t *testing.T) {
	// every class is a weighted average sum(f_k*v_k*w_k)/sum(f_k*w_k)
	// with per-neighbour factors f_k: 1 participating, 2 doubled,
	// 0 excluded. Order N, S, W, E.
	factors := map[Class][4]float64{
		Middle:     {1, 1, 1, 1},
		Side1:      {0, 2, 1, 1},
		Side2:      {2, 0, 1, 1},
		Side3:      {1, 1, 0, 2},
		Side4:      {1, 1, 2, 0},
		Corner1:    {0, 1, 0, 1}, // N,W Neumann -> S,E survive
		Corner2:    {1, 0, 1, 0}, // S,E Neumann -> N,W survive
		Corner3:    {0, 1, 1, 0}, // N,E Neumann -> S,W survive
		Corner4:    {1, 0, 0, 1}, // S,W Neumann -> N,E survive
		InvCorner1: {1, 2, 1, 2}, // NW diagonal -> S,E doubled
		InvCorner2: {1, 2, 2, 1}, // NE diagonal -> S,W doubled
		InvCorner3: {2, 1, 1, 2}, // SW diagonal -> N,E doubled
		InvCorner4: {2, 1, 2, 1}, // SE diagonal -> N,W doubled
	}
	v := [4]float64{1.5, 2.5, 3.5, 4.5}
	w := [4]float64{1, 2, 3, 4}
	for class, f := range factors {
		num, den := 0.0, 0.0
		for k := 0; k < 4; k++ {
			num += f[k] * v[k] * w[k]
			den += f[k] * w[k]
		}
		assert.InDelta(t, num/den, Apply(class, v, w), 1e-12, "class %d", class)
	}
}

func TestAllThirteenClassesCovered(t *testing.T) {
	// S6: enumerate all 256 adjacent/diagonal Neumann patterns and
	// assert that each of the thirteen classes is selected by at least
	// one of them.
	seen := map[Class]bool{}
	for bits := 0; bits < 256; bits++ {
		var adj, diag [4]bool
		for k := 0; k < 4; k++ {
			adj[k] = bits&(1<<uint(k)) != 0
			diag[k] = bits&(1<<uint(k+4)) != 0
		}
		seen[Select(adj, diag)] = true
	}
	for c := Middle; c <= InvCorner4; c++ {
		assert.True(t, seen[c], "class %d never selected by any Neumann pattern", c)
	}
}
