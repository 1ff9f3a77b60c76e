package latex

// resolveRelationships marks targets and stores, on every control, the signed
// row distance to its target. It must run after every wire exists: imputed
// rows change the distance even though qubit numbers do not.
//
// The row lookup is a linear scan per control, O(columns × rows) overall.
func (d *Diagram) resolveRelationships() {
	for c := 0; c <= d.column; c++ {
		group := d.relationships[c]
		if len(group) < 2 {
			continue
		}

		targ := group[len(group)-1]
		d.circuit[targ].targ[c] = true

		for _, ctrl := range group[:len(group)-1] {
			d.circuit[ctrl].ctrl[c] = d.distance(ctrl, targ)
		}
	}
}

// distance is the number of rows from ctrl to targ, negative when the target
// sits above the control.
func (d *Diagram) distance(ctrl, targ uint64) int {
	lo, hi := -1, -1
	for i, q := range d.rows {
		if q != ctrl && q != targ {
			continue
		}
		if lo < 0 {
			lo = i
			continue
		}
		hi = i
		break
	}
	if lo < 0 || hi < 0 {
		return 0
	}

	span := hi - lo
	if ctrl > targ {
		return -span
	}
	return span
}
