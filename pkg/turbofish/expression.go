package turbofish

import "strings"

// Expression is a nested generic instantiation: a root token and its ordered
// type arguments. A leaf has no arguments. Expressions are treated as
// immutable once built.
type Expression struct {
	Root TypeToken
	Args []Expression
}

// Leaf returns an expression with no arguments.
func Leaf(name string) Expression {
	return Expression{Root: TypeToken{Name: name}}
}

// Nest returns an expression rooted at name with the given arguments.
func Nest(name string, args ...Expression) Expression {
	return Expression{Root: TypeToken{Name: name}, Args: args}
}

// IsLeaf reports whether the expression has no type arguments.
func (e Expression) IsLeaf() bool {
	return len(e.Args) == 0
}

// Depth returns the nesting depth of the expression. A leaf has depth 0.
func (e Expression) Depth() int {
	depth := 0
	for _, arg := range e.Args {
		depth = max(depth, arg.Depth()+1)
	}
	return depth
}

// String is equivalent to Render(e).
func (e Expression) String() string {
	return Render(e)
}

// Render serializes e using turbofish notation: Root::<Arg1, Arg2>. A leaf is
// rendered as its bare token name.
func Render(e Expression) string {
	var sb strings.Builder
	render(&sb, e)
	return sb.String()
}

func render(sb *strings.Builder, e Expression) {
	sb.WriteString(e.Root.Name)
	if e.IsLeaf() {
		return
	}
	sb.WriteString("::<")
	for i, arg := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		render(sb, arg)
	}
	sb.WriteByte('>')
}
