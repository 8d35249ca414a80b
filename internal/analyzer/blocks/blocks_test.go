package blocks

import (
	"strings"
	"testing"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(a BlockAnalyzer, src string) Result {
	return a.Analyze(strings.Split(src, "\n"))
}

func TestIndentAnalyzer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want complexity.Symbol
	}{
		{
			name: "no loops",
			src:  "x = 1\ny = x + 2\nprint(y)",
			want: complexity.Constant,
		},
		{
			name: "literal range",
			src:  "for i in range(10):\n    print(i)",
			want: complexity.Constant,
		},
		{
			name: "size bound",
			src:  "for i in range(n):\n    print(i)",
			want: complexity.Linear,
		},
		{
			name: "iterating a collection",
			src:  "for item in items:\n    total += item",
			want: complexity.Linear,
		},
		{
			name: "nested linear",
			src:  "for i in range(n):\n    for j in range(n):\n        x=1",
			want: complexity.Pow(2),
		},
		{
			name: "three deep",
			src:  "for i in range(n):\n    for j in range(n):\n        for k in range(n):\n            x = 1",
			want: complexity.Pow(3),
		},
		{
			name: "doubling while",
			src:  "i = 1\nwhile i < n:\n    i = i * 2",
			want: complexity.Log,
		},
		{
			name: "halving while",
			src:  "while i > n:\n    i //= 2",
			want: complexity.Log,
		},
		{
			name: "plain while",
			src:  "i = 0\nwhile i < n:\n    i += 1",
			want: complexity.Linear,
		},
		{
			name: "doubling outside lookahead",
			src:  "while i < n:\n    a = 1\n    b = 2\n    c = 3\n    d = 4\n    e = 5\n    i *= 2",
			want: complexity.Linear,
		},
		{
			name: "linear around log",
			src:  "for j in range(n):\n    i = 1\n    while i < n:\n        i *= 2",
			want: complexity.LinearLog,
		},
		{
			name: "constant loop inside linear",
			src:  "for i in range(n):\n    for j in range(3):\n        x = 1",
			want: complexity.Linear,
		},
		{
			name: "blank and comment lines keep the loop open",
			src:  "for i in range(n):\n\n# note\n    for j in range(n):\n        x = 1",
			want: complexity.Pow(2),
		},
	}

	a := NewIndentAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze(a, tt.src).Symbol)
		})
	}
}

func TestIndentAnalyzerOnlyCountsOpenLoops(t *testing.T) {
	src := "for i in range(n):\n    for j in range(n):\n        x = 1\nfor k in range(n):\n    y = 2"

	indent := analyze(NewIndentAnalyzer(), src)
	assert.Equal(t, complexity.Linear, indent.Symbol)
	assert.Equal(t, 2, indent.MaxDepth)
	assert.Len(t, indent.Loops, 3)

	// the same shape with braces keeps the nested pair
	braced := "for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {\n        x = 1;\n    }\n}\nfor (int k = 0; k < n; k++) {\n    y = 2;\n}"
	assert.Equal(t, complexity.Pow(2), analyze(NewBraceAnalyzer(), braced).Symbol)
}

func TestIndentAnalyzerLoopSites(t *testing.T) {
	src := "def f(n):\n    for i in range(n):\n        j = 1\n        while j < n:\n            j *= 2"
	res := analyze(NewIndentAnalyzer(), src)

	require.Len(t, res.Loops, 2)
	assert.Equal(t, models.LoopSite{
		Line: 2, Kind: models.LoopFor, Symbol: complexity.Linear,
		Bound: models.BoundSize, Depth: 1, Header: "for i in range(n):",
	}, res.Loops[0])
	assert.Equal(t, 4, res.Loops[1].Line)
	assert.Equal(t, models.LoopWhile, res.Loops[1].Kind)
	assert.Equal(t, models.BoundDoubling, res.Loops[1].Bound)
	assert.Equal(t, 2, res.Loops[1].Depth)
	assert.Equal(t, 2, res.MaxDepth)
	assert.Equal(t, complexity.LinearLog, res.Symbol)
}

func TestBraceAnalyzer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want complexity.Symbol
	}{
		{
			name: "no loops",
			src:  "int x = 1;\nreturn x;",
			want: complexity.Constant,
		},
		{
			name: "literal bound",
			src:  "for (int i = 0; i < 10; i++) {\n    sum += i;\n}",
			want: complexity.Constant,
		},
		{
			name: "size bound",
			src:  "for (int i = 0; i < n; i++) {\n    sum += i;\n}",
			want: complexity.Linear,
		},
		{
			name: "sequential loops",
			src:  "for(int i=0;i<n;i++){ }\nfor(int j=0;j<n;j++){ }",
			want: complexity.Linear,
		},
		{
			name: "single line doubling while",
			src:  "while(i<n){ i*=2; }",
			want: complexity.Log,
		},
		{
			name: "doubling update clause",
			src:  "for (int i = 1; i < n; i *= 2) {\n}",
			want: complexity.Log,
		},
		{
			name: "shift update clause",
			src:  "for (int i = n; i > 0; i >>= 1) {\n}",
			want: complexity.Log,
		},
		{
			name: "labeled nested loops",
			src:  "outer: for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {\n        if (a[i] == b[j]) break outer;\n    }\n}",
			want: complexity.Pow(2),
		},
		{
			name: "labeled while",
			src:  "scan:\nwhile (i < n) {\n    i++;\n}\nretry : while (j < n) { j *= 2; }",
			want: complexity.Linear,
		},
		{
			name: "while with doubling in body",
			src:  "int i = 1;\nwhile (i < n) {\n    i = i << 1;\n}",
			want: complexity.Log,
		},
		{
			name: "while without doubling",
			src:  "while (i < n) {\n    i++;\n}",
			want: complexity.Linear,
		},
		{
			name: "nested linear",
			src:  "for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {\n        sum++;\n    }\n}",
			want: complexity.Pow(2),
		},
		{
			name: "three deep",
			src: "for (int i = 0; i < n; i++) {\n" +
				"    for (int j = 0; j < n; j++) {\n" +
				"        for (int k = 0; k < n; k++) {\n" +
				"            sum++;\n" +
				"        }\n" +
				"    }\n" +
				"}",
			want: complexity.Pow(3),
		},
		{
			name: "nested logs",
			src:  "for (int i = 1; i < n; i *= 2) {\n    for (int j = 1; j < n; j *= 2) {\n    }\n}",
			want: complexity.LogPow(2),
		},
		{
			// loops sharing one body multiply; only top-level siblings take the max
			name: "sibling inner loops multiply",
			src: "for (int i = 0; i < n; i++) {\n" +
				"    for (int j = 0; j < n; j++) {\n" +
				"    }\n" +
				"    for (int k = 0; k < n; k++) {\n" +
				"    }\n" +
				"}",
			want: complexity.Pow(3),
		},
		{
			name: "loop inside if block",
			src: "for (int i = 0; i < n; i++) {\n" +
				"    if (i % 2 == 0) {\n" +
				"        for (int j = 0; j < n; j++) {\n" +
				"        }\n" +
				"    }\n" +
				"}",
			want: complexity.Pow(2),
		},
		{
			name: "class and method wrappers",
			src: "public class Main {\n" +
				"    public static void main(String[] args) {\n" +
				"        for (int i = 0; i < n; i++) {\n" +
				"            for (int j = 0; j < n; j++) {\n" +
				"            }\n" +
				"        }\n" +
				"    }\n" +
				"}",
			want: complexity.Pow(2),
		},
		{
			name: "braceless nested bodies",
			src:  "for (int i = 0; i < n; i++)\n    for (int j = 0; j < n; j++)\n        sum++;\nfor (int k = 0; k < n; k++) sum--;",
			want: complexity.Pow(2),
		},
		{
			name: "braceless outer with braced inner",
			src:  "for (int i = 0; i < n; i++)\n    for (int j = 0; j < n; j++) {\n        sum++;\n    }",
			want: complexity.Pow(2),
		},
		{
			name: "multi-line header",
			src:  "for (int i = 1;\n     i < n;\n     i *= 2) {\n    sum++;\n}",
			want: complexity.Log,
		},
		{
			name: "commented out loops",
			src:  "// for (int i = 0; i < n; i++) {\n/*\nfor (int j = 0; j < n; j++) {\n*/\nint x = 0;",
			want: complexity.Constant,
		},
		{
			name: "braces in literals",
			src:  "for (int i = 0; i < n; i++) {\n    s += \"}\";\n    c = '{';\n    for (int j = 0; j < n; j++) {\n    }\n}",
			want: complexity.Pow(2),
		},
		{
			name: "unclosed loops",
			src:  "for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {",
			want: complexity.Pow(2),
		},
		{
			name: "stray closing brace",
			src:  "}\n}\nfor (int i = 0; i < n; i++) {\n}",
			want: complexity.Linear,
		},
	}

	a := NewBraceAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze(a, tt.src).Symbol)
		})
	}
}

func TestBraceAnalyzerDepth(t *testing.T) {
	src := "for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {\n    }\n}\nfor (int k = 0; k < 5; k++) {\n}"
	res := analyze(NewBraceAnalyzer(), src)

	require.Len(t, res.Loops, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{res.Loops[0].Depth, res.Loops[1].Depth, res.Loops[2].Depth})
	assert.Equal(t, models.BoundConstant, res.Loops[2].Bound)
	assert.Equal(t, 2, res.MaxDepth)
}

func TestAnalyzersAreIdempotent(t *testing.T) {
	for _, lang := range models.Languages {
		a := ForLanguage(lang)
		src := "for (int i = 0; i < n; i++) {\n    for (int j = 0; j < n; j++) {\n    }\n}"
		if lang == models.LangPython {
			src = "for i in range(n):\n    while j < n:\n        j *= 2"
		}
		first := analyze(a, src)
		second := analyze(a, src)
		assert.Equal(t, first, second, lang)
	}
}

func TestEmptyInputIsConstant(t *testing.T) {
	for _, lang := range models.Languages {
		assert.Equal(t, complexity.Constant, analyze(ForLanguage(lang), "").Symbol, lang)
	}
}

func TestForLanguage(t *testing.T) {
	assert.IsType(t, &IndentAnalyzer{}, ForLanguage(models.LangPython))
	assert.IsType(t, &BraceAnalyzer{}, ForLanguage(models.LangJava))
	assert.IsType(t, &BraceAnalyzer{}, ForLanguage(models.LangCpp))
}

func TestCustomSizeVariable(t *testing.T) {
	a := NewIndentAnalyzer(WithSizeVariable("size"))
	assert.Equal(t, complexity.Linear, analyze(a, "for i in range(size):\n    x = 1").Symbol)

	res := analyze(a, "for i in range(n):\n    x = 1")
	require.Len(t, res.Loops, 1)
	assert.Equal(t, models.BoundUnknown, res.Loops[0].Bound)

	b := NewBraceAnalyzer(WithSizeVariable("len"))
	assert.Equal(t, complexity.Log, analyze(b, "while (k < len) {\n    k *= 2;\n}").Symbol)
}

func TestLookaheadOption(t *testing.T) {
	src := "while i < n:\n    a = 1\n    i *= 2"
	assert.Equal(t, complexity.Log, analyze(NewIndentAnalyzer(), src).Symbol)
	assert.Equal(t, complexity.Linear, analyze(NewIndentAnalyzer(WithLookahead(1)), src).Symbol)
}

func TestClassifier(t *testing.T) {
	tests := []struct {
		name      string
		braces    bool
		kind      models.LoopKind
		header    string
		following []string
		want      Classification
	}{
		{"python literal range", false, models.LoopFor, "for i in range(0, 10, 2):", nil,
			Classification{complexity.Constant, models.BoundConstant}},
		{"python size range", false, models.LoopFor, "for i in range(1, n + 1):", nil,
			Classification{complexity.Linear, models.BoundSize}},
		{"python enumerate", false, models.LoopFor, "for i, v in enumerate(xs):", nil,
			Classification{complexity.Linear, models.BoundUnknown}},
		{"python while unknown shape", false, models.LoopWhile, "while queue:", []string{"    queue.pop()"},
			Classification{complexity.Linear, models.BoundUnknown}},
		{"python while parenthesized", false, models.LoopWhile, "while (i < n):", []string{"    i = 2 * i"},
			Classification{complexity.Log, models.BoundDoubling}},
		{"brace literal bound", true, models.LoopFor, "for (int i = 0; i <= 100; i++) {", nil,
			Classification{complexity.Constant, models.BoundConstant}},
		{"brace literal bound with size init", true, models.LoopFor, "for (int i = n; i < 100; i++) {", nil,
			Classification{complexity.Linear, models.BoundSize}},
		{"brace range for", true, models.LoopFor, "for (int x : values) {", nil,
			Classification{complexity.Linear, models.BoundUnknown}},
		{"brace literal doubling", true, models.LoopFor, "for (int i = 1; i < 100; i *= 2) {", nil,
			Classification{complexity.Constant, models.BoundConstant}},
		{"brace halving update", true, models.LoopFor, "for (int i = n; i > 0; i /= 2) {", nil,
			Classification{complexity.Log, models.BoundDoubling}},
		{"brace while other variable doubles", true, models.LoopWhile, "while (i < n) {", []string{"j *= 2;"},
			Classification{complexity.Linear, models.BoundSize}},
		{"brace while compound condition", true, models.LoopWhile, "while (i < n && ok) {", []string{"i *= 2;"},
			Classification{complexity.Linear, models.BoundUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.braces)
			assert.Equal(t, tt.want, c.Classify(tt.kind, tt.header, tt.following))
		})
	}
}
