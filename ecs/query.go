package ecs

// intersect returns the live entities present in every set, in the order of
// the smallest set.
func intersect(w *World, sets ...*sparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range sets {
		if s.len() < sets[smallest].len() {
			smallest = i
		}
	}
	var out []Entity
	for _, e := range sets[smallest].entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		inAll := true
		for i, s := range sets {
			if i != smallest && !s.has(e) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, e)
		}
	}
	return out
}
