package turbofish

const (
	// DefaultMaxDepth is the nesting depth used when none is configured.
	DefaultMaxDepth = 3
	// DefaultMaxArgs is the largest number of type arguments drawn per node.
	DefaultMaxArgs = 3
)

// Source is the randomness a Generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithVocabulary replaces the token vocabulary. Tokens whose names Parse would
// reject are dropped; if none remain the option is ignored.
func WithVocabulary(vocab []TypeToken) Option {
	return func(g *Generator) {
		valid := make([]TypeToken, 0, len(vocab))
		for _, tok := range vocab {
			if IsIdent(tok.Name) && len(tok.Name) <= MaxInputLength {
				valid = append(valid, tok)
			}
		}
		if len(valid) > 0 {
			g.vocab = valid
		}
	}
}

// WithVocabularyNames is WithVocabulary for plain names.
func WithVocabularyNames(names ...string) Option {
	vocab := make([]TypeToken, 0, len(names))
	for _, name := range names {
		if IsIdent(name) {
			vocab = append(vocab, TypeToken{Name: name})
		}
	}
	return WithVocabulary(vocab)
}

// WithMaxArgs sets the upper bound on type arguments per node. Values below 1
// are ignored.
func WithMaxArgs(n int) Option {
	return func(g *Generator) {
		if n >= 1 {
			g.maxArgs = min(n, MaxInputLength)
		}
	}
}

// Generator builds random expressions. It holds no mutable state after
// construction and is safe for concurrent use; all randomness comes from the
// Source passed to each call.
//
// Every expression a Generator produces renders to text that Parse accepts:
// requested depths are capped at MaxDepth, the deepest level whose worst-case
// rendering stays within MaxParseDepth and MaxInputLength.
type Generator struct {
	vocab    []TypeToken
	maxArgs  int
	maxDepth int
}

// NewGenerator returns a Generator using the default vocabulary and argument
// bound unless overridden by opts.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		vocab:   defaultVocabulary,
		maxArgs: DefaultMaxArgs,
	}
	for _, opt := range opts {
		opt(g)
	}

	longest := 0
	for _, tok := range g.vocab {
		longest = max(longest, len(tok.Name))
	}
	for g.maxDepth < MaxParseDepth && WorstCaseLength(g.maxDepth+1, g.maxArgs, longest) <= MaxInputLength {
		g.maxDepth++
	}
	return g
}

// MaxDepth returns the deepest nesting the generator will produce.
func (g *Generator) MaxDepth() int {
	return g.maxDepth
}

// WorstCaseLength returns the length in bytes of the longest rendering of an
// expression with the given depth, arguments per node and longest type name.
// Results above MaxInputLength are reported as MaxInputLength+1.
func WorstCaseLength(depth, maxArgs, longestName int) int {
	const limit = MaxInputLength + 1
	name := min(max(longestName, 0), limit)
	args := min(max(maxArgs, 1), limit)
	n := name
	for range max(depth, 0) {
		// name + "::<" + args joined by ", " + ">"
		n = name + 4 + args*n + 2*(args-1)
		if n > limit || n < 0 {
			return limit
		}
	}
	return n
}

// Vocabulary returns a copy of the generator's tokens.
func (g *Generator) Vocabulary() []TypeToken {
	return append([]TypeToken(nil), g.vocab...)
}

// Generate builds an expression top-down. At each node the chance of nesting
// is remaining/(maxDepth+1), so it shrinks as the tree deepens, and once the
// remaining depth hits zero only leaves are produced. A nesting node draws
// between 0 and maxArgs arguments.
func (g *Generator) Generate(rng Source, maxDepth int) Expression {
	maxDepth = min(max(maxDepth, 0), g.maxDepth)
	return g.generate(rng, maxDepth, maxDepth)
}

func (g *Generator) generate(rng Source, remaining, maxDepth int) Expression {
	expr := Expression{Root: g.pick(rng)}
	if remaining <= 0 {
		return expr
	}
	if rng.Float64() >= float64(remaining)/float64(maxDepth+1) {
		return expr
	}
	n := rng.IntN(g.maxArgs + 1)
	if n == 0 {
		return expr
	}
	expr.Args = make([]Expression, n)
	for i := range expr.Args {
		expr.Args[i] = g.generate(rng, remaining-1, maxDepth)
	}
	return expr
}

// GenerateReverse builds an expression innermost-first. It draws a target
// depth in [0, maxDepth], starts from a leaf and wraps it once per level in a
// fresh root whose remaining arguments are leaves. The result has exactly the
// drawn depth and a single non-leaf spine.
func (g *Generator) GenerateReverse(rng Source, maxDepth int) Expression {
	maxDepth = min(max(maxDepth, 0), g.maxDepth)
	depth := rng.IntN(maxDepth + 1)

	expr := Expression{Root: g.pick(rng)}
	for level := 0; level < depth; level++ {
		args := make([]Expression, 1+rng.IntN(g.maxArgs))
		at := rng.IntN(len(args))
		for i := range args {
			if i == at {
				args[i] = expr
				continue
			}
			args[i] = Expression{Root: g.pick(rng)}
		}
		expr = Expression{Root: g.pick(rng), Args: args}
	}
	return expr
}

func (g *Generator) pick(rng Source) TypeToken {
	return g.vocab[rng.IntN(len(g.vocab))]
}
