package reshape

// Totals is a running total per key that remembers the order in which keys
// were first added. Rankings use that order to break ties.
type Totals struct {
	order  []string
	values map[string]int
}

// NewTotals returns an empty Totals.
func NewTotals() *Totals {
	return &Totals{values: make(map[string]int)}
}

// Add adds n to the total for key.
func (t *Totals) Add(key string, n int) {
	if _, ok := t.values[key]; !ok {
		t.order = append(t.order, key)
	}
	t.values[key] += n
}

// Get returns the total for key.
func (t *Totals) Get(key string) (int, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in first-insertion order.
func (t *Totals) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of keys.
func (t *Totals) Len() int {
	return len(t.order)
}

// Sum returns the sum of all totals.
func (t *Totals) Sum() int {
	sum := 0
	for _, v := range t.values {
		sum += v
	}
	return sum
}

// Map returns a copy of the totals as a plain map.
func (t *Totals) Map() map[string]int {
	out := make(map[string]int, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Aggregates holds the totals accumulated during one reshape run. It is
// owned by that run and is not safe for concurrent use.
type Aggregates struct {
	// StoreTotals sums quantities per destination store code.
	StoreTotals *Totals

	// ProductTotals sums quantities per product code.
	ProductTotals *Totals

	// ProductDescriptions keeps the last non-empty description seen for
	// each product code.
	ProductDescriptions map[string]string
}

// NewAggregates returns empty aggregates for a new run.
func NewAggregates() *Aggregates {
	return &Aggregates{
		StoreTotals:         NewTotals(),
		ProductTotals:       NewTotals(),
		ProductDescriptions: make(map[string]string),
	}
}

// Description returns the recorded description for a product code.
func (a *Aggregates) Description(productCode string) (string, bool) {
	d, ok := a.ProductDescriptions[productCode]
	return d, ok
}

// setDescription records desc unless it is empty; an empty description never
// erases an earlier one.
func (a *Aggregates) setDescription(productCode, desc string) {
	if desc == "" {
		return
	}
	a.ProductDescriptions[productCode] = desc
}
