package quiz

import (
	"errors"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/lingoquiz/internal/index"
	"github.com/abhisek/lingoquiz/internal/topic"
)

// GeneratorConfig tunes the generator.
type GeneratorConfig struct {
	// MaxSweeps caps round-robin passes over the topic list.
	MaxSweeps int
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{MaxSweeps: 10000}
}

// Generator selects quiz questions from an index. It holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	cfg GeneratorConfig
	now func() time.Time
}

// NewGenerator creates a Generator. A non-positive MaxSweeps falls back to
// the default.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.MaxSweeps <= 0 {
		cfg.MaxSweeps = DefaultConfig().MaxSweeps
	}
	return &Generator{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of g that reads time from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	cp := *g
	cp.now = now
	return &cp
}

// Validate checks a quiz config without touching any index.
func Validate(cfg Config) error {
	fields := make(map[string]string)
	if cfg.QuestionCount < 1 {
		fields["questionCount"] = "must be at least 1"
	}
	if len(cfg.Topics) == 0 {
		fields["topics"] = "must not be empty"
	}
	if len(fields) > 0 {
		return &ConfigError{Fields: fields}
	}
	return nil
}

// Generate builds a quiz from idx.
//
// The same seed and the same topics in the same order always produce the
// same questions against an unchanged index. All topics draw from one
// random stream in request order, so reordering topics may change the
// result.
func (g *Generator) Generate(idx *index.Index, cfg Config) (*GeneratedQuiz, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, errors.New("generate quiz: index is nil")
	}

	createdAt := g.now()
	seed := cfg.Seed
	if seed == "" {
		seed = strconv.FormatInt(createdAt.UnixMilli(), 10)
	}
	r := newRNG(hashSeed(seed))

	counts := make(map[topic.ID]int, len(cfg.Topics))
	pools := make([][]int, len(cfg.Topics))
	for i, t := range cfg.Topics {
		ids := idx.SentencesFor(t)
		counts[t] = len(ids)
		shuffle(ids, r)
		pools[i] = ids
	}

	a := &allocation{
		idx:    idx,
		topics: cfg.Topics,
		pools:  pools,
		target: cfg.QuestionCount,
	}
	// Sizing from the union keeps a huge requested count from allocating
	// more than the corpus can ever fill.
	union := a.union()
	capacity := min(cfg.QuestionCount, len(union))
	a.chosen = make(map[int]struct{}, capacity)
	a.picked = make([]int, 0, capacity)
	a.cursor = make([]int, len(cfg.Topics))
	a.remaining = make([]int, len(cfg.Topics))

	// ceil(count/topics) without overflowing near math.MaxInt.
	quota := (cfg.QuestionCount-1)/len(cfg.Topics) + 1
	for i := range a.remaining {
		a.remaining[i] = quota
	}

	a.roundRobin(g.cfg.MaxSweeps)

	fallback := 0
	if len(a.picked) < a.target {
		rest := lo.Filter(union, func(id int, _ int) bool { return !a.isChosen(id) })
		shuffle(rest, r)
		for _, id := range rest {
			if len(a.picked) >= a.target {
				break
			}
			a.take(id)
			fallback++
		}
	}

	picked := a.picked
	if len(picked) > cfg.QuestionCount {
		picked = picked[:cfg.QuestionCount]
	}

	questions := make([]Question, 0, len(picked))
	for _, id := range picked {
		s, _ := idx.Sentence(id)
		matched := lo.Uniq(lo.Filter(cfg.Topics, func(t topic.ID, _ int) bool {
			return idx.Has(id, t)
		}))
		questions = append(questions, Question{SentenceID: id, Sentence: s, MatchedTopics: matched})
	}

	return &GeneratedQuiz{
		Config:       cfg,
		Questions:    questions,
		CreatedAt:    createdAt,
		IndexVersion: idx.Version(),
		Metadata: Metadata{
			CandidateCounts: counts,
			UnionSize:       len(union),
			Shortfall:       len(union) < cfg.QuestionCount,
			EffectiveSeed:   seed,
			FallbackFilled:  fallback,
		},
	}, nil
}

// allocation is the per-call selection state.
type allocation struct {
	idx    *index.Index
	topics []topic.ID
	pools  [][]int
	target int

	chosen    map[int]struct{}
	picked    []int
	cursor    []int // next position to inspect in each pool
	remaining []int // quota left per requested topic position
}

func (a *allocation) isChosen(id int) bool {
	_, ok := a.chosen[id]
	return ok
}

// take adds a sentence and credits it to every requested topic it
// satisfies, not only the one that sourced it.
func (a *allocation) take(id int) {
	a.chosen[id] = struct{}{}
	a.picked = append(a.picked, id)
	for i, t := range a.topics {
		if a.idx.Has(id, t) {
			a.remaining[i]--
		}
	}
}

// roundRobin sweeps the topics, letting each topic with quota left take
// its next unchosen sentence, until the target is met, a sweep makes no
// progress or maxSweeps passes have run.
func (a *allocation) roundRobin(maxSweeps int) {
	for sweep := 0; sweep < maxSweeps && len(a.picked) < a.target; sweep++ {
		progress := false
		for i := range a.topics {
			if len(a.picked) >= a.target {
				return
			}
			if a.remaining[i] <= 0 {
				continue
			}
			id, ok := a.next(i)
			if !ok {
				continue
			}
			a.take(id)
			progress = true
		}
		if !progress {
			return
		}
	}
}

// next advances topic i's cursor to its next unchosen sentence.
func (a *allocation) next(i int) (int, bool) {
	pool := a.pools[i]
	for a.cursor[i] < len(pool) {
		id := pool[a.cursor[i]]
		a.cursor[i]++
		if !a.isChosen(id) {
			return id, true
		}
	}
	return 0, false
}

// union returns every candidate of the requested topics once, in request
// order then corpus order.
func (a *allocation) union() []int {
	var all []int
	for _, t := range a.topics {
		all = append(all, a.idx.SentencesFor(t)...)
	}
	return lo.Uniq(all)
}
