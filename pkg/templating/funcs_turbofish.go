package templating

import (
	"net/url"

	"github.com/CTAG07/Turbofish/pkg/turbofish"
)

// randomTurbofish renders a freshly generated expression. The requested depth
// is clamped to the configured MaxDepth.
func (tm *TemplateManager) randomTurbofish(depth int) string {
	depth = min(depth, tm.config.MaxDepth)
	return turbofish.Render(tm.gen.Generate(turbofish.NewSource(), depth))
}

// reverseTurbofish is randomTurbofish using the innermost-first strategy.
func (tm *TemplateManager) reverseTurbofish(depth int) string {
	depth = min(depth, tm.config.MaxDepth)
	return turbofish.Render(tm.gen.GenerateReverse(turbofish.NewSource(), depth))
}

// suggestions returns count rendered expressions of at most the configured depth.
func (tm *TemplateManager) suggestions(count int) []string {
	count = max(0, min(count, tm.config.MaxSuggestions))
	out := make([]string, count)
	for i := range out {
		out[i] = tm.randomTurbofish(tm.config.MaxDepth)
	}
	return out
}

// vocabulary returns every token name the generator draws from.
func (tm *TemplateManager) vocabulary() []string {
	tokens := tm.gen.Vocabulary()
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		names[i] = tok.Name
	}
	return names
}

// turbofishPath returns the escaped page path for rendered turbofish text.
func turbofishPath(text string) string {
	return "/" + url.PathEscape(text)
}

// depthOf returns the nesting depth of rendered turbofish text, or -1 if it
// does not parse.
func depthOf(text string) int {
	expr, err := turbofish.Parse(text)
	if err != nil {
		return -1
	}
	return expr.Depth()
}
