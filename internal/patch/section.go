package patch

import "fmt"

// EditRequest is one proposed change as submitted by the host. Line hints are
// 0-indexed and advisory only - matching decides the authoritative location.
// Search/replace content may arrive under the canonical field names or under
// the legacy old_text/new_text aliases; NormalizeSections reconciles them.
type EditRequest struct {
	StartLine   int     `json:"start_line" yaml:"start_line"`
	EndLine     int     `json:"end_line" yaml:"end_line"`
	Search      *string `json:"search,omitempty" yaml:"search,omitempty"`
	Replace     *string `json:"replace,omitempty" yaml:"replace,omitempty"`
	OldText     *string `json:"old_text,omitempty" yaml:"old_text,omitempty"` // legacy alias for search
	NewText     *string `json:"new_text,omitempty" yaml:"new_text,omitempty"` // legacy alias for replace
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// NormalizedEdit is an EditRequest with alias fields resolved into canonical
// search/replace content. Created once per validation pass, immutable after.
type NormalizedEdit struct {
	StartLine   int
	EndLine     int
	Search      string
	Replace     string
	Description string
}

// NormalizeSection resolves the canonical content fields of a single request.
// A legacy alias produces a non-fatal warning; a side with neither the
// canonical nor the legacy field present fails the request.
func NormalizeSection(req EditRequest, index int) (NormalizedEdit, []string, error) {
	var warnings []string

	edit := NormalizedEdit{
		StartLine:   req.StartLine,
		EndLine:     req.EndLine,
		Description: req.Description,
	}

	switch {
	case req.Search != nil:
		edit.Search = *req.Search
	case req.OldText != nil:
		edit.Search = *req.OldText
		warnings = append(warnings, fmt.Sprintf("request %d: legacy field \"old_text\" used; prefer \"search\"", index))
	default:
		return NormalizedEdit{}, nil, RequestErrorf("request %d: missing search content: provide \"search\" (or legacy \"old_text\")", index)
	}

	switch {
	case req.Replace != nil:
		edit.Replace = *req.Replace
	case req.NewText != nil:
		edit.Replace = *req.NewText
		warnings = append(warnings, fmt.Sprintf("request %d: legacy field \"new_text\" used; prefer \"replace\"", index))
	default:
		return NormalizedEdit{}, nil, RequestErrorf("request %d: missing replace content: provide \"replace\" (or legacy \"new_text\")", index)
	}

	return edit, warnings, nil
}

// NormalizeSections resolves every request in order. The first malformed
// request fails the whole batch, before any matching happens.
func NormalizeSections(reqs []EditRequest) ([]NormalizedEdit, []string, error) {
	edits := make([]NormalizedEdit, 0, len(reqs))
	var warnings []string
	for i, req := range reqs {
		edit, w, err := NormalizeSection(req, i)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
		edits = append(edits, edit)
	}
	return edits, warnings, nil
}
