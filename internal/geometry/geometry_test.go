package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternToUWC(t *testing.T) {
	u := PatternToUWC(4, 1, 1)
	assert.Equal(t, [][]int{{-1}, {1}}, u.U)
	assert.Equal(t, []int{3, 0}, u.W)
	assert.Equal(t, []int{1, 1}, u.C)
	assert.Equal(t, 1, u.Dim())
}

func TestMetaPatternToHyperrectangleUWC(t *testing.T) {
	links := map[int]ChainLink{
		1: {N: 4, I: 0, J: 4, SubID: 0},
		0: {N: 3, I: 0, J: 1, SubID: NoSubPattern},
	}
	lookup := func(id int) (ChainLink, bool) {
		l, ok := links[id]
		return l, ok
	}

	u, err := MetaPatternToHyperrectangleUWC(1, lookup)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Dim())
	assert.Equal(t, []int{3, 2, 0, 0}, u.W) // [4-1, 3-1, 0, 0]
	assert.Equal(t, []int{0, 4, 0, 1}, u.C) // outermost (0,4) then inner (0,1)
	assert.Equal(t, [][]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}, u.U)
}

func TestMetaPatternToHyperrectangleUWCMissingLink(t *testing.T) {
	lookup := func(id int) (ChainLink, bool) { return ChainLink{}, false }
	_, err := MetaPatternToHyperrectangleUWC(5, lookup)
	assert.ErrorIs(t, err, ErrBadDims)
}

func TestConvexHullDense(t *testing.T) {
	u := PatternToUWC(3, 0, 1)
	pts, err := ConvexHullHyperrectangleND(u, true)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}, {2}}, pts)
}

func TestConvexHullVertexOnly1D(t *testing.T) {
	u := PatternToUWC(3, 0, 1)
	pts, err := ConvexHullHyperrectangleND(u, false)
	require.NoError(t, err)
	// last (and only) axis collapses to endpoints {0, w[0]}
	assert.Equal(t, [][]int{{0}, {2}}, pts)
}

func TestConvexHull2DOrdering(t *testing.T) {
	links := map[int]ChainLink{
		1: {N: 2, I: 0, J: 4, SubID: 0},
		0: {N: 3, I: 0, J: 1, SubID: NoSubPattern},
	}
	lookup := func(id int) (ChainLink, bool) {
		l, ok := links[id]
		return l, ok
	}
	u, err := MetaPatternToHyperrectangleUWC(1, lookup)
	require.NoError(t, err)

	dense, err := ConvexHullHyperrectangleND(u, true)
	require.NoError(t, err)
	// outer axis (length 2) varies slowest, inner axis (length 3) fastest
	assert.Equal(t, [][]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}, dense)

	vertex, err := ConvexHullHyperrectangleND(u, false)
	require.NoError(t, err)
	assert.Equal(t, [][]int{
		{0, 0}, {0, 2},
		{1, 0}, {1, 2},
	}, vertex)
}

func TestOrigUWCToPiece1D(t *testing.T) {
	u := PatternToUWC(4, 1, 1)
	row, col, n, i, j, err := OrigUWCToPiece1D(2, 3, u)
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, col)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, i)
	assert.Equal(t, 1, j)
}

func TestOrigUWCToPiece1DRejectsHigherOrder(t *testing.T) {
	links := map[int]ChainLink{
		1: {N: 4, I: 0, J: 4, SubID: 0},
		0: {N: 3, I: 0, J: 1, SubID: NoSubPattern},
	}
	u, err := MetaPatternToHyperrectangleUWC(1, func(id int) (ChainLink, bool) {
		l, ok := links[id]
		return l, ok
	})
	require.NoError(t, err)
	_, _, _, _, _, err = OrigUWCToPiece1D(0, 0, u)
	assert.ErrorIs(t, err, ErrBadDims)
}
