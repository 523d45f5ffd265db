package inventory

import (
	"fmt"

	"github.com/maxvdkolk/spfmine/internal/geometry"
	"github.com/maxvdkolk/spfmine/internal/pattern"
)

// ResidualID is the reserved shape id for the singleton pattern (1,0,0)
// used for unmatched nonzeros. Its pieces are always iterated last.
const ResidualID = -1

// MetaPattern is (base_triple, order, sub_pattern_id): the outermost axis
// triple, the shape's order (depth of the sub-pattern chain), and the id
// of the nested sub-pattern (geometry.NoSubPattern for order-1 shapes,
// which are plain Patterns).
type MetaPattern struct {
	N, I, J      int
	Order        int
	SubPatternID int
}

// ChainLink adapts a MetaPattern to geometry.ChainLink.
func (mp MetaPattern) ChainLink() geometry.ChainLink {
	return geometry.ChainLink{N: mp.N, I: mp.I, J: mp.J, SubID: mp.SubPatternID}
}

// Coord is a matrix origin, used as the key of the piece map.
type Coord struct {
	Row, Col int
}

// Inventory is the pair of insertion-ordered mappings described in
// spec.md §3: Shapes (id -> MetaPattern, excluding the reserved residual
// id) and Pieces ((row,col) -> id, including ResidualID entries, which
// this type keeps positioned last).
type Inventory struct {
	Shapes *OrderedMap[int, *MetaPattern]
	Pieces *OrderedMap[Coord, int]

	nextShapeID int
}

// New returns an empty Inventory.
func New() *Inventory {
	return &Inventory{
		Shapes: NewOrderedMap[int, *MetaPattern](),
		Pieces: NewOrderedMap[Coord, int](),
	}
}

// NewFromPieces builds the order-1 inventory from a pattern-search cover:
// every distinct (N,I,J) with N>1 gets a dense zero-based id in
// first-appearance order, and every Singleton piece is recorded under
// ResidualID. Because pattern.Search already yields discovered pieces
// before residuals, the residual entries land last without further
// reordering.
func NewFromPieces(pieces []pattern.Piece) *Inventory {
	inv := New()

	ids := make(map[pattern.Pattern]int)
	for _, p := range pieces {
		var id int
		if p.Pattern.N == 1 {
			id = ResidualID
		} else {
			existing, ok := ids[p.Pattern]
			if !ok {
				existing = inv.nextShapeID
				ids[p.Pattern] = existing
				inv.nextShapeID++
				inv.Shapes.Set(existing, &MetaPattern{
					N: p.Pattern.N, I: p.Pattern.I, J: p.Pattern.J,
					Order:        1,
					SubPatternID: geometry.NoSubPattern,
				})
			}
			id = existing
		}
		inv.Pieces.Set(Coord{p.Row, p.Col}, id)
	}

	return inv
}

// NextShapeID allocates and returns a fresh shape id, for use by
// augmentation when it emits a new order-k MetaPattern.
func (inv *Inventory) NextShapeID() int {
	id := inv.nextShapeID
	inv.nextShapeID++
	return id
}

// Shape looks up the MetaPattern for a non-residual shape id, returning
// ErrUnknownShape if no piece in the shape table has it -- the case of a
// Pieces entry referencing an id that Shapes never recorded.
func (inv *Inventory) Shape(id int) (*MetaPattern, error) {
	mp, ok := inv.Shapes.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, id)
	}
	return mp, nil
}

// ChainLookup returns a geometry.ChainLookup bound to this inventory's
// shape table.
func (inv *Inventory) ChainLookup() geometry.ChainLookup {
	return func(id int) (geometry.ChainLink, bool) {
		mp, ok := inv.Shapes.Get(id)
		if !ok {
			return geometry.ChainLink{}, false
		}
		return mp.ChainLink(), true
	}
}

// ReappendResidualLast moves every ResidualID entry in Pieces to the end,
// preserving their relative order, restoring invariant (ii) of spec.md
// §4.3 after a bulk merge that may have appended non-residual entries
// after some residual ones would otherwise have sorted first.
func (inv *Inventory) ReappendResidualLast() {
	var residuals []Coord
	for _, k := range inv.Pieces.Keys() {
		id, _ := inv.Pieces.Get(k)
		if id == ResidualID {
			residuals = append(residuals, k)
		}
	}
	for _, k := range residuals {
		inv.Pieces.MoveToEnd(k)
	}
}

// ShapeIDsInFirstAppearanceOrder returns the non-residual shape ids in
// the order their first piece appears in the piece map -- the order the
// SPF writer assigns dense reorder indices in.
func (inv *Inventory) ShapeIDsInFirstAppearanceOrder() []int {
	seen := make(map[int]bool)
	var order []int
	for _, k := range inv.Pieces.Keys() {
		id, _ := inv.Pieces.Get(k)
		if id == ResidualID || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	return order
}
