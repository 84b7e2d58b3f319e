package link

// filterReferences applies the link type, status and for-value stages of the
// query pipeline to the candidates fetched by text.
func filterReferences(candidates []Reference, q Query) ([]Reference, error) {
	if len(candidates) == 0 {
		return nil, &QueryError{Kind: ErrorText, Query: q}
	}

	refs := keep(candidates, func(r Reference) bool { return r.LinkType == q.LinkType })
	if len(refs) == 0 {
		return nil, &QueryError{Kind: ErrorLinkType, Query: q}
	}

	if q.Status != "" {
		refs = keep(refs, func(r Reference) bool { return r.Status == q.Status })
		if len(refs) == 0 {
			return nil, &QueryError{Kind: ErrorStatus, Query: q}
		}
	}

	switch {
	case len(q.For) == 1 && q.For[0] == NoFor:
		refs = keep(refs, func(r Reference) bool { return len(r.For) == 0 })
	case len(q.For) > 0:
		refs = keep(refs, func(r Reference) bool { return sharesValue(q.For, r.For) })
	case q.ExplicitFor:
		refs = keep(refs, func(r Reference) bool { return len(r.For) == 0 })
	default:
		return refs, nil
	}
	if len(refs) == 0 {
		return nil, &QueryError{Kind: ErrorFor, Query: q}
	}

	return refs, nil
}

func keep(refs []Reference, pred func(Reference) bool) []Reference {
	var out []Reference
	for _, r := range refs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func sharesValue(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
