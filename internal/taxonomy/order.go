package taxonomy

// Order is the fixed display priority of commissions.
type Order struct {
	names []string
	rank  map[string]int
}

func NewOrder(names []string) *Order {
	o := &Order{rank: map[string]int{}}
	for _, name := range names {
		if _, dup := o.rank[name]; dup {
			continue
		}
		o.rank[name] = len(o.names)
		o.names = append(o.names, name)
	}
	return o
}

// Rank returns the priority index of a listed commission.
func (o *Order) Rank(commission string) (int, bool) {
	r, ok := o.rank[commission]
	return r, ok
}

func (o *Order) Len() int {
	return len(o.names)
}

func (o *Order) Names() []string {
	return append([]string(nil), o.names...)
}

// Sort returns the distinct commissions ordered by priority, unlisted ones
// appended in the order they were given.
func (o *Order) Sort(commissions []string) []string {
	present := map[string]struct{}{}
	for _, c := range commissions {
		present[c] = struct{}{}
	}

	out := make([]string, 0, len(present))
	for _, name := range o.names {
		if _, ok := present[name]; ok {
			out = append(out, name)
		}
	}
	added := map[string]struct{}{}
	for _, c := range commissions {
		if _, listed := o.rank[c]; listed {
			continue
		}
		if _, done := added[c]; done {
			continue
		}
		added[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
