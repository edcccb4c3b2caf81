package datastructure

// EdgeFilter decides whether an edge exists for partitioning purposes. Rejected edges
// carry no flow and do not connect their endpoints.
type EdgeFilter func(e EdgeState) bool

func AllEdges(e EdgeState) bool {
	return true
}

func NoEdges(e EdgeState) bool {
	return false
}

// AccessFilter accepts edges that are accessible in at least one direction.
func AccessFilter(e EdgeState) bool {
	return e.Forward || e.Backward
}

func AvoidRoadClasses(classes ...RoadClass) EdgeFilter {
	avoid := make(map[RoadClass]struct{}, len(classes))
	for _, rc := range classes {
		avoid[rc] = struct{}{}
	}
	return func(e EdgeState) bool {
		_, skip := avoid[e.RoadClass]
		return !skip
	}
}

// EdgeFilterSequence accepts an edge only if every filter accepts it. nil filters are skipped.
func EdgeFilterSequence(filters ...EdgeFilter) EdgeFilter {
	seq := make([]EdgeFilter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			seq = append(seq, f)
		}
	}
	return func(e EdgeState) bool {
		for _, f := range seq {
			if !f(e) {
				return false
			}
		}
		return true
	}
}
