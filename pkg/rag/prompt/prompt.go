// Package prompt assembles the instructions sent to the answer model.
package prompt

import (
	"strings"
)

const docsPlaceholder = "{docs_content}"

// systemTemplate carries the answer formatting contract. Citation markers
// <span id='n'></span> number chunks in the order they were supplied.
var systemTemplate = `
        You are an assistant for question-answering tasks. 
         If you don't know the answer, say that you don't know. 
        You have access to documents related to the question. 


        Instructions for formatting the response:
            1. Use markdown formatting to make the answer more readable:
                - Use **bold** for key terms and important concepts
                - Use bullet points (` + "`" + `*` + "`" + `) for listing items or features
                - Use ` + "`" + `code blocks` + "`" + ` for technical terms, parameters, or steps
                - Use > for quoting directly from the documents
                - Use ### for section headings if needed
            2. Structure the response with clear paragraphs and headings
            3. If mentioning multiple points, use numbered lists
            4. If explaining a process, break it down into steps
            5. When referencing content from the following chunks, add a reference like <span id='1'></span>, <span id='2'></span>, <span id='3'></span>... etc.
            These will be used to link back to the source chunk.
            6. If you don't reference a chunk, just do not mention it at all.
        Use the following pieces of retrieved context to answer 
        the question.
        


        "{docs_content}"
    `

// NoContext stands in for the retrieved context when a search found nothing.
const NoContext = "No relevant context was found in the uploaded documents for this question."

// System returns the answer system instruction embedding docsContent.
// An empty docsContent yields the NoContext signal.
func System(docsContent string) string {
	if strings.TrimSpace(docsContent) == "" {
		docsContent = NoContext
	}
	return strings.Replace(systemTemplate, docsPlaceholder, docsContent, 1)
}

// WithDocuments appends the available documents hint to a question.
func WithDocuments(question string, filenames []string) string {
	if len(filenames) == 0 {
		return question
	}
	return question + "\n\nAvailable documents: " + strings.Join(filenames, ", ")
}
