package templating

import "html/template"

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Turbofish (from funcs_turbofish.go)
		"randomTurbofish":  tm.randomTurbofish,
		"reverseTurbofish": tm.reverseTurbofish,
		"suggestions":      tm.suggestions,
		"turbofishPath":    turbofishPath,
		"depthOf":          depthOf,
		"vocabulary":       tm.vocabulary,

		// Simple (from funcs_simple.go)
		"add":    add,
		"sub":    sub,
		"repeat": repeat,
		"title":  title,
	}
}
