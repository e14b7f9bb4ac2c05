package history

// Group is one undo unit: the deltas that undo and redo together.
type Group struct {
	// Name labels explicit transactions; typing runs have none.
	Name   string
	Kind   EditKind
	Deltas []Delta

	// SelBefore is restored after undo, SelAfter after redo.
	SelBefore Selection
	SelAfter  Selection

	Sealed bool
	Seq    uint64
}

// Len returns the number of deltas in the group.
func (g *Group) Len() int {
	return len(g.Deltas)
}

// last returns the most recent delta.
func (g *Group) last() Delta {
	return g.Deltas[len(g.Deltas)-1]
}

// undo applies the inverse deltas in reverse order. When one fails the
// already undone deltas are re-applied so the document is unchanged.
func (g *Group) undo(t Target) error {
	for i := len(g.Deltas) - 1; i >= 0; i-- {
		if err := t.Apply(g.Deltas[i].Inverse()); err != nil {
			return rollback(err, func() error {
				for j := i + 1; j < len(g.Deltas); j++ {
					if rerr := t.Apply(g.Deltas[j]); rerr != nil {
						return rerr
					}
				}
				return nil
			})
		}
	}
	return nil
}

// redo applies the deltas in their original order, rolling back on failure.
func (g *Group) redo(t Target) error {
	for i, d := range g.Deltas {
		if err := t.Apply(d); err != nil {
			return rollback(err, func() error {
				for j := i - 1; j >= 0; j-- {
					if rerr := t.Apply(g.Deltas[j].Inverse()); rerr != nil {
						return rerr
					}
				}
				return nil
			})
		}
	}
	return nil
}

// Undo reverts the group's deltas against t without touching any history
// stack. It is used to cancel a transaction.
func (g *Group) Undo(t Target) error {
	return g.undo(t)
}
