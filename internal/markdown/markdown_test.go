package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		src      string
		contains []string
		absent   []string
	}{
		{
			name:     "headings and lists",
			src:      "# Getting Started\n\n1. Create an account\n2. Set up your profile\n",
			contains: []string{"<h1>Getting Started</h1>", "<ol>", "<li>Create an account</li>"},
		},
		{
			name:     "script is stripped",
			src:      "Hello <script>alert(1)</script> world",
			contains: []string{"Hello", "world"},
			absent:   []string{"<script", "alert(1)"},
		},
		{
			name:     "external links are hardened",
			src:      "[docs](https://example.com/docs)",
			contains: []string{`href="https://example.com/docs"`, "nofollow", `target="_blank"`},
		},
		{
			name:   "javascript urls are dropped",
			src:    "[click](javascript:alert(1))",
			absent: []string{"javascript:"},
		},
		{
			name:     "tables",
			src:      "| Plan | Price |\n|---|---|\n| Pro | $99 |\n",
			contains: []string{"<table>", "<td>Pro</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.src)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "Getting Started Welcome to our platform!",
		r.Excerpt("# Getting Started\n\nWelcome to our **platform**!", 100))
	assert.Equal(t, "Getting…", r.Excerpt("# Getting Started", 8))
	assert.Equal(t, "", r.Excerpt("", 10))
}
