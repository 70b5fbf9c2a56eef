package turbofish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{name: "leaf", expr: Leaf("A"), want: "A"},
		{name: "single argument", expr: Nest("Vec", Leaf("i32")), want: "Vec::<i32>"},
		{name: "two arguments", expr: Nest("HashMap", Leaf("String"), Leaf("u8")), want: "HashMap::<String, u8>"},
		{
			name: "nested",
			expr: Nest("Option", Nest("Result", Nest("Vec", Leaf("i32")), Leaf("bool"))),
			want: "Option::<Result::<Vec::<i32>, bool>>",
		},
		{name: "empty args is a leaf", expr: Expression{Root: TypeToken{Name: "Box"}, Args: []Expression{}}, want: "Box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Render(tt.expr))
			assert.Equal(t, tt.want, tt.expr.String())
			assert.Equal(t, Render(tt.expr), Render(tt.expr), "render must be deterministic")
		})
	}
}

func TestExpression_Depth(t *testing.T) {
	assert.Equal(t, 0, Leaf("u8").Depth())
	assert.Equal(t, 1, Nest("Vec", Leaf("u8")).Depth())
	assert.Equal(t, 3, Nest("A", Leaf("B"), Nest("C", Nest("D", Leaf("E")))).Depth())
	assert.True(t, Leaf("u8").IsLeaf())
	assert.False(t, Nest("Vec", Leaf("u8")).IsLeaf())
}
