package augment

import (
	"fmt"
	"sort"

	"github.com/maxvdkolk/spfmine/internal/inventory"
)

// Options bundles the augmentation parameters of spec.md §4.3.
type Options struct {
	TargetDim int
	Cutoff    int
	StrideMin int
	StrideMax int
}

// Run raises inv in place from order 1 to opts.TargetDim, level by level.
// nrows/ncols bound the matrix the inventory's origins live in, needed to
// test in-bounds progressions during the stride probe.
func Run(inv *inventory.Inventory, nrows, ncols int, opts Options) error {
	if opts.Cutoff < 2 {
		return fmt.Errorf("%w: got %d", ErrBadCutoff, opts.Cutoff)
	}
	if opts.TargetDim < 2 {
		return fmt.Errorf("%w: got %d", ErrBadTargetDim, opts.TargetDim)
	}

	for currDim := 2; currDim <= opts.TargetDim; currDim++ {
		runLevel(inv, nrows, ncols, currDim, opts)
	}
	return nil
}

// runLevel performs one pass of §4.3's per-level algorithm.
func runLevel(inv *inventory.Inventory, nrows, ncols, currDim int, opts Options) {
	groups, order := snapshotGroups(inv)

	var results []groupResult
	for _, gid := range order {
		origins := groups[gid]
		if len(origins) < opts.Cutoff {
			continue
		}
		gr := processGroup(inv, gid, origins, nrows, ncols, currDim, opts)
		if len(gr.newShapes) > 0 {
			results = append(results, gr)
		}
	}

	for _, gr := range results {
		for id, mp := range gr.newShapes {
			inv.Shapes.Set(id, mp)
		}
		for coord, id := range gr.remap {
			inv.Pieces.Set(coord, id)
		}
		for _, coord := range gr.dissolved {
			inv.Pieces.Delete(coord)
		}
		if sub, ok := inv.Shapes.Get(gr.gid); ok {
			sub.Order = currDim
		}
	}

	inv.ReappendResidualLast()
}

// snapshotGroups buckets the current (non-residual) pieces by id, and
// returns the ids in first-appearance order so group processing -- and
// therefore new-id allocation -- is deterministic.
func snapshotGroups(inv *inventory.Inventory) (map[int][]inventory.Coord, []int) {
	groups := make(map[int][]inventory.Coord)
	var order []int
	seen := make(map[int]bool)
	for _, k := range inv.Pieces.Keys() {
		id, _ := inv.Pieces.Get(k)
		if id == inventory.ResidualID {
			continue
		}
		groups[id] = append(groups[id], k)
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	return groups, order
}

// groupResult accumulates the effect of absorbing one id's group of
// origins into zero or more new, higher-order meta-patterns.
type groupResult struct {
	gid       int
	newShapes map[int]*inventory.MetaPattern
	remap     map[inventory.Coord]int
	dissolved []inventory.Coord
}

type occEntry struct {
	stride   inventory.Coord
	count    int
	firstSeq int
}

// processGroup runs §4.3 step 1 (b)-(e) for one group.
func processGroup(inv *inventory.Inventory, gid int, origins []inventory.Coord, nrows, ncols, currDim int, opts Options) groupResult {
	gr := groupResult{
		gid:       gid,
		newShapes: make(map[int]*inventory.MetaPattern),
		remap:     make(map[inventory.Coord]int),
	}

	originSet := make(map[inventory.Coord]bool, len(origins))
	for _, o := range origins {
		originSet[o] = true
	}

	occList := buildOccurrenceList(origins, opts.StrideMin, opts.StrideMax)
	if len(occList) == 0 {
		return gr
	}

	absorbed := make(map[inventory.Coord]bool)

	var lastShapeID int = -1
	var lastTriple [3]int
	haveLast := false

	for {
		best, bestOK := searchBestCandidate(occList, origins, originSet, absorbed, nrows, ncols, opts.Cutoff)
		if !bestOK || best.n < opts.Cutoff {
			break
		}

		// mark absorbed
		cur := inventory.Coord{Row: best.x, Col: best.y}
		for k := 0; k < best.n; k++ {
			absorbed[cur] = true
			cur = inventory.Coord{Row: cur.Row + best.strideRow, Col: cur.Col + best.strideCol}
		}

		// decrement the occurrence count of the winning stride
		for _, e := range occList {
			if e.stride.Row == best.strideRow && e.stride.Col == best.strideCol {
				e.count -= best.n - 1
				break
			}
		}

		triple := [3]int{best.n, best.strideRow, best.strideCol}
		var shapeID int
		if haveLast && triple == lastTriple {
			shapeID = lastShapeID
		} else {
			shapeID = inv.NextShapeID()
			gr.newShapes[shapeID] = &inventory.MetaPattern{
				N: best.n, I: best.strideRow, J: best.strideCol,
				Order:        currDim,
				SubPatternID: gid,
			}
			lastShapeID = shapeID
			lastTriple = triple
			haveLast = true
		}

		origin := inventory.Coord{Row: best.x, Col: best.y}
		gr.remap[origin] = shapeID
		p := origin
		for k := 1; k < best.n; k++ {
			p = inventory.Coord{Row: p.Row + best.strideRow, Col: p.Col + best.strideCol}
			gr.dissolved = append(gr.dissolved, p)
		}
	}

	return gr
}

// buildOccurrenceList computes the stride histogram of step (b)/(c):
// strides between every ordered pair of origins, filtered to the stride
// window, counted, and sorted descending by count then ascending by
// squared magnitude then by first-seen order.
func buildOccurrenceList(origins []inventory.Coord, strideMin, strideMax int) []*occEntry {
	counts := make(map[inventory.Coord]*occEntry)
	seq := 0
	for i := 0; i < len(origins); i++ {
		for j := i + 1; j < len(origins); j++ {
			dx := origins[j].Row - origins[i].Row
			dy := origins[j].Col - origins[i].Col
			if !inWindow(dx, strideMin, strideMax) || !inWindow(dy, strideMin, strideMax) {
				continue
			}
			s := inventory.Coord{Row: dx, Col: dy}
			e, ok := counts[s]
			if !ok {
				e = &occEntry{stride: s, firstSeq: seq}
				seq++
				counts[s] = e
			}
			e.count++
		}
	}

	list := make([]*occEntry, 0, len(counts))
	for _, e := range counts {
		list = append(list, e)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		mi := sqMag(list[i].stride)
		mj := sqMag(list[j].stride)
		if mi != mj {
			return mi < mj
		}
		return list[i].firstSeq < list[j].firstSeq
	})
	return list
}

func inWindow(delta, lo, hi int) bool {
	d := delta
	if d < 0 {
		d = -d
	}
	return d >= lo && d <= hi
}

func sqMag(c inventory.Coord) int {
	return c.Row*c.Row + c.Col*c.Col
}

type candidate struct {
	x, y                 int
	n                    int
	strideRow, strideCol int
}

// searchBestCandidate runs step (e)'s single sweep over the occurrence
// list (cyclic successor lookup, per-stride origin sweep with the
// specified short-circuit) and returns the best candidate found, if any
// beats the sentinel (piece_cutoff - 1).
func searchBestCandidate(occList []*occEntry, origins []inventory.Coord, originSet, absorbed map[inventory.Coord]bool, nrows, ncols, cutoff int) (candidate, bool) {
	best := candidate{n: cutoff - 1}
	found := false

	n := len(occList)
	for idx, e := range occList {
		nextCount := occList[(idx+1)%n].count
		maxN := e.count + 1

		for _, p := range origins {
			probed := probe(p, maxN, e.stride, originSet, absorbed, nrows, ncols)
			if probed > best.n {
				best = candidate{x: p.Row, y: p.Col, n: probed, strideRow: e.stride.Row, strideCol: e.stride.Col}
				found = true
			}
			if best.n >= nextCount+1 {
				break
			}
		}
	}

	return best, found
}

// probe walks the arithmetic progression starting at p with the given
// stride, returning the largest n <= maxN such that every visited cell
// stays in-bounds, is one of the group's origins, and is not yet
// absorbed.
func probe(p inventory.Coord, maxN int, stride inventory.Coord, originSet, absorbed map[inventory.Coord]bool, nrows, ncols int) int {
	cur := p
	count := 0
	for count < maxN {
		if cur.Row < 0 || cur.Row >= nrows || cur.Col < 0 || cur.Col >= ncols {
			break
		}
		if !originSet[cur] || absorbed[cur] {
			break
		}
		count++
		cur = inventory.Coord{Row: cur.Row + stride.Row, Col: cur.Col + stride.Col}
	}
	return count
}
