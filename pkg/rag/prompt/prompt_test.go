package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_EmbedsContext(t *testing.T) {
	got := System("Source: {}\nContent: Revenue grew 20%.")

	assert.True(t, strings.HasPrefix(got, "\n        You are an assistant for question-answering tasks. \n"))
	assert.Contains(t, got, "         If you don't know the answer, say that you don't know. \n")
	assert.Contains(t, got, "You have access to documents related to the question. \n\n\n        Instructions for formatting the response:\n")
	assert.Contains(t, got, "- Use bullet points (`*`) for listing items or features\n")
	assert.Contains(t, got, "- Use `code blocks` for technical terms, parameters, or steps\n")
	assert.Contains(t, got, "add a reference like <span id='1'></span>, <span id='2'></span>, <span id='3'></span>... etc.\n")
	assert.True(t, strings.HasSuffix(got, "        \"Source: {}\nContent: Revenue grew 20%.\"\n    "))
	assert.NotContains(t, got, docsPlaceholder)
}

func TestSystem_NoContext(t *testing.T) {
	got := System("  ")
	assert.Contains(t, got, "\""+NoContext+"\"")
}

func TestSystem_PercentSignsSurvive(t *testing.T) {
	assert.Contains(t, System("100% {docs_content}"), "\"100% {docs_content}\"")
}

func TestWithDocuments(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"no documents", nil, "What grew?"},
		{"one document", []string{"a.pdf"}, "What grew?\n\nAvailable documents: a.pdf"},
		{"several documents", []string{"a.pdf", "b.pdf"}, "What grew?\n\nAvailable documents: a.pdf, b.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithDocuments("What grew?", tt.files))
		})
	}
}
