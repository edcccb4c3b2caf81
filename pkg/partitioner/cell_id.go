package partitioner

import "math/bits"

// CellID encodes the path from the root cell to a cell bit by bit. The root is 1, the children
// of a cell are id<<1 and id<<1|1, so two ids share a bit prefix iff their cells are nested.
type CellID uint64

// MAX_SUBCELL_BITS bounds the number of bits the disconnected fragments of a leaf may append.
const MAX_SUBCELL_BITS = 32

func (c CellID) Child(i int) CellID {
	return c<<1 | CellID(i&1)
}

func (c CellID) Depth() int {
	return bits.Len64(uint64(c)) - 1
}

// IsPrefixOf reports whether other lies in the subtree of c. every id is a prefix of itself.
func (c CellID) IsPrefixOf(other CellID) bool {
	if c == 0 || other == 0 {
		return false
	}
	lc, lo := bits.Len64(uint64(c)), bits.Len64(uint64(other))
	if lc > lo {
		return false
	}
	return other>>(lo-lc) == c
}

// canSplit keeps enough free bits for the children of id plus the fragment codes of a leaf.
func canSplit(id CellID, maxSubcellNumber int) bool {
	return bits.Len64(uint64(id)) < 64-maxSubcellNumber-1
}

// fragmentCellID returns the id of fragment j out of k fragments of leaf. fragment j < k-1 gets
// the code 1^j 0 appended, the last one 1^(k-1), which keeps the fragment ids prefix free.
func fragmentCellID(leaf CellID, j, k int) CellID {
	if k <= 1 {
		return leaf
	}
	if j < k-1 {
		return leaf<<(j+1) | CellID((1<<j)-1)<<1
	}
	return leaf<<(k-1) | CellID((1<<(k-1))-1)
}
