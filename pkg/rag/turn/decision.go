package turn

import (
	"fmt"
	"slices"
	"strings"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/retrieval"
)

// Decision is what DECIDE produced: a DirectAnswer or a RetrievalRequest.
type Decision interface {
	decision()
}

// DirectAnswer ends the turn without retrieval.
type DirectAnswer struct {
	Text string
}

// RetrievalRequest asks for one filtered search. Filenames is already
// narrowed to documents the session owns; empty means the whole session.
type RetrievalRequest struct {
	CallID    string
	Query     string
	Filenames []string
}

func (DirectAnswer) decision()     {}
func (RetrievalRequest) decision() {}

// decide turns the model response into a Decision. dropped counts tool
// calls beyond the first, which are ignored.
func decide(resp *llm.Response, question string, documents []string) (d Decision, dropped int, err error) {
	if resp == nil {
		return nil, 0, fmt.Errorf("empty model response")
	}
	if len(resp.ToolCalls) == 0 {
		return DirectAnswer{Text: resp.Content}, 0, nil
	}

	call := resp.ToolCalls[0]
	if call.Name != retrieval.ToolName {
		return nil, 0, fmt.Errorf("unknown tool %q", call.Name)
	}

	query, _ := call.Arguments["query"].(string)
	if strings.TrimSpace(query) == "" {
		query = question
	}
	id := call.ID
	if id == "" {
		id = "call_0"
	}
	return RetrievalRequest{
		CallID:    id,
		Query:     query,
		Filenames: intersect(stringList(call.Arguments["filenames"]), documents),
	}, len(resp.ToolCalls) - 1, nil
}

// stringList accepts the shapes providers decode JSON arrays into.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list != "" {
			return []string{list}
		}
	}
	return nil
}

// intersect keeps requested names the session registered, in request
// order and without duplicates.
func intersect(requested, registered []string) []string {
	var out []string
	for _, name := range requested {
		if slices.Contains(registered, name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
