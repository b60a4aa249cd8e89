package program

import "fmt"

// Direction names where a block move should go.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

func (d Direction) String() string {
	if d == MoveUp {
		return "up"
	}
	return "down"
}

// IllegalMoveError reports a block move that would break predicate
// ordering: some predicate would end up referencing a question asked in a
// later block.
type IllegalMoveError struct {
	BlockID   int64
	Direction Direction
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("moving block %d %s would place a predicate before its question", e.BlockID, e.Direction)
}

// MoveBlock returns a copy of the program with the block moved one position
// in the given direction. Moving past either end is a no-op. A move that
// would invalidate predicate ordering fails with IllegalMoveError and
// leaves the program unchanged.
func (p ProgramDefinition) MoveBlock(blockID int64, dir Direction) (ProgramDefinition, error) {
	idx := -1
	for i, b := range p.Blocks {
		if b.ID == blockID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, &BlockNotFoundError{ProgramID: p.ID, BlockID: blockID}
	}

	swap := idx - 1
	if dir == MoveDown {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(p.Blocks) {
		return p, nil
	}

	moved := p
	moved.Blocks = make([]BlockDefinition, len(p.Blocks))
	copy(moved.Blocks, p.Blocks)
	moved.Blocks[idx], moved.Blocks[swap] = moved.Blocks[swap], moved.Blocks[idx]

	if !moved.HasValidPredicateOrdering() {
		return p, &IllegalMoveError{BlockID: blockID, Direction: dir}
	}
	return moved, nil
}

// InsertRepeatedBlock returns a copy of the program with block inserted
// under the enumerator block, after any repeated blocks already attached to
// it. The block's EnumeratorID is set to the enumerator block's ID.
func (p ProgramDefinition) InsertRepeatedBlock(enumeratorBlockID int64, block BlockDefinition) (ProgramDefinition, error) {
	enumIdx := -1
	for i, b := range p.Blocks {
		if b.ID == enumeratorBlockID {
			enumIdx = i
			break
		}
	}
	if enumIdx < 0 {
		return p, &BlockNotFoundError{ProgramID: p.ID, BlockID: enumeratorBlockID}
	}

	hasEnumeratorQuestion := false
	for _, q := range p.Blocks[enumIdx].Questions {
		if q.Type == TypeEnumerator {
			hasEnumeratorQuestion = true
			break
		}
	}
	if !hasEnumeratorQuestion {
		return p, fmt.Errorf("block %d is not an enumerator block", enumeratorBlockID)
	}

	insertAt := enumIdx + 1
	for insertAt < len(p.Blocks) && p.Blocks[insertAt].EnumeratorID == enumeratorBlockID {
		insertAt++
	}

	block.EnumeratorID = enumeratorBlockID
	inserted := p
	inserted.Blocks = make([]BlockDefinition, 0, len(p.Blocks)+1)
	inserted.Blocks = append(inserted.Blocks, p.Blocks[:insertAt]...)
	inserted.Blocks = append(inserted.Blocks, block)
	inserted.Blocks = append(inserted.Blocks, p.Blocks[insertAt:]...)
	return inserted, nil
}
