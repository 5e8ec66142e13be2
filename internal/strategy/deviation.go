package strategy

// handShape selects which hands an index play applies to
type handShape int

const (
	shapeHard handShape = iota
	shapePair
)

// indexPlay departs from the chart when the count crosses an index. With
// below unset the play triggers at count >= index (running count > index
// when running is set), otherwise at count < index.
type indexPlay struct {
	shape   handShape
	total   int // hard total, or pair rank value
	dealer  int // dealer up-card value, ace is 1
	index   float64
	below   bool
	running bool // compare the running count instead of the true count
	action  Action
}

// applies reports whether the play covers this hand and dealer card
func (p indexPlay) applies(state TableState) bool {
	if state.DealerUpCard.Value() != p.dealer {
		return false
	}
	if p.shape == shapePair {
		return state.IsPair() && state.Hand[0].Value() == p.total
	}
	return !state.IsSoft() && state.HardTotal == p.total
}

// triggered reports whether the count has crossed the index
func (p indexPlay) triggered(state TableState) bool {
	count := state.TrueCount
	if p.running {
		count = state.RunningCount
	}
	switch {
	case p.below:
		return count < p.index
	case p.running:
		return count > p.index
	}
	return count >= p.index
}

// Surrender index plays, checked before anything else.
var fab4S17 = []indexPlay{
	{shape: shapeHard, total: 14, dealer: 10, index: 3, action: Surrender},
	{shape: shapeHard, total: 15, dealer: 10, index: 0, action: Surrender},
	{shape: shapeHard, total: 15, dealer: 9, index: 2, action: Surrender},
	{shape: shapeHard, total: 15, dealer: 1, index: 1, action: Surrender},
}

var fab4H17 = []indexPlay{
	{shape: shapeHard, total: 14, dealer: 10, index: 3, action: Surrender},
	{shape: shapeHard, total: 15, dealer: 10, index: 0, action: Surrender},
	{shape: shapeHard, total: 15, dealer: 9, index: 2, action: Surrender},
	{shape: shapeHard, total: 14, dealer: 1, index: 3, action: Surrender},
}

var illustrious18S17 = []indexPlay{
	{shape: shapeHard, total: 16, dealer: 10, index: 0, running: true, action: Stand},
	{shape: shapeHard, total: 15, dealer: 10, index: 4, action: Stand},
	{shape: shapePair, total: 10, dealer: 5, index: 5, action: Split},
	{shape: shapePair, total: 10, dealer: 6, index: 4, action: Split},
	{shape: shapeHard, total: 10, dealer: 10, index: 4, action: DoubleDown},
	{shape: shapeHard, total: 12, dealer: 3, index: 2, action: Stand},
	{shape: shapeHard, total: 12, dealer: 2, index: 3, action: Stand},
	{shape: shapeHard, total: 11, dealer: 1, index: 1, below: true, action: Hit},
	{shape: shapeHard, total: 9, dealer: 2, index: 1, action: DoubleDown},
	{shape: shapeHard, total: 10, dealer: 1, index: 4, action: DoubleDown},
	{shape: shapeHard, total: 9, dealer: 7, index: 3, action: DoubleDown},
	{shape: shapeHard, total: 16, dealer: 9, index: 5, action: Stand},
	{shape: shapeHard, total: 13, dealer: 2, index: -1, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 4, index: 0, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 5, index: -2, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 6, index: -1, below: true, action: Hit},
	{shape: shapeHard, total: 13, dealer: 3, index: -2, below: true, action: Hit},
}

// The H17 set doubles 11 against an ace at every count and doubles 10
// against an ace from a lower index.
var illustrious18H17 = []indexPlay{
	{shape: shapeHard, total: 16, dealer: 10, index: 0, running: true, action: Stand},
	{shape: shapeHard, total: 15, dealer: 10, index: 4, action: Stand},
	{shape: shapePair, total: 10, dealer: 5, index: 5, action: Split},
	{shape: shapePair, total: 10, dealer: 6, index: 4, action: Split},
	{shape: shapeHard, total: 10, dealer: 10, index: 4, action: DoubleDown},
	{shape: shapeHard, total: 12, dealer: 3, index: 2, action: Stand},
	{shape: shapeHard, total: 12, dealer: 2, index: 3, action: Stand},
	{shape: shapeHard, total: 9, dealer: 2, index: 1, action: DoubleDown},
	{shape: shapeHard, total: 10, dealer: 1, index: 3, action: DoubleDown},
	{shape: shapeHard, total: 9, dealer: 7, index: 3, action: DoubleDown},
	{shape: shapeHard, total: 16, dealer: 9, index: 5, action: Stand},
	{shape: shapeHard, total: 13, dealer: 2, index: -1, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 4, index: 0, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 5, index: -2, below: true, action: Hit},
	{shape: shapeHard, total: 12, dealer: 6, index: -1, below: true, action: Hit},
	{shape: shapeHard, total: 13, dealer: 3, index: -2, below: true, action: Hit},
}

// DeviationStrategy plays basic strategy except where a count index play
// applies. Index plays whose action is not legal fall back to the chart.
type DeviationStrategy struct {
	basic     *BasicStrategy
	surrender []indexPlay
	plays     []indexPlay
	name      string
}

// NewS17DeviationStrategy returns index plays for a dealer standing on soft 17
func NewS17DeviationStrategy() *DeviationStrategy {
	return &DeviationStrategy{
		basic:     NewBasicStrategy(),
		surrender: fab4S17,
		plays:     illustrious18S17,
		name:      "s17-deviations",
	}
}

// NewH17DeviationStrategy returns index plays for a dealer hitting soft 17
func NewH17DeviationStrategy() *DeviationStrategy {
	return &DeviationStrategy{
		basic:     NewH17BasicStrategy(),
		surrender: fab4H17,
		plays:     illustrious18H17,
		name:      "h17-deviations",
	}
}

// String returns the decider name
func (d *DeviationStrategy) String() string {
	return d.name
}

// Decide implements Decider. Where a surrender index play covers the hand it
// replaces the chart's surrender cell.
func (d *DeviationStrategy) Decide(state TableState, options ActionSet) (Action, error) {
	if options.Contains(Surrender) {
		covered := false
		for _, p := range d.surrender {
			if !p.applies(state) {
				continue
			}
			if p.triggered(state) {
				return Surrender, nil
			}
			covered = true
		}
		if !covered {
			if a, ok := d.basic.surrender(state, options); ok {
				return a, nil
			}
		}
		options = options.Without(Surrender)
	}

	_, splitting := d.basic.split(state, options)
	for _, p := range d.plays {
		if p.shape == shapeHard && splitting {
			continue
		}
		if p.applies(state) && p.triggered(state) && options.Contains(p.action) {
			return p.action, nil
		}
	}

	return d.basic.Decide(state, options)
}
