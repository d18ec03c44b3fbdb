package filter

// Validate repairs contradictory flag combinations in p and returns the
// corrected copy. It never fails: a filter toggled into an inconsistent
// state between renders still yields a usable, if adjusted, result.
//
// The steps run in order:
//  1. only-no-funding implies include-funding-null;
//  2. only-no-deadline implies include-no-deadline and clears show-overdue;
//  3. show-overdue with a non-negative minimum offset widens the minimum
//     to MinDeadlineDays so overdue grants are reachable.
func Validate(p Patch) Patch {
	out := p

	if isTrue(out.OnlyNoFunding) && !isTrue(out.IncludeFundingNull) {
		out.IncludeFundingNull = ptr(true)
	}

	if isTrue(out.OnlyNoDeadline) {
		if !isTrue(out.IncludeNoDeadline) {
			out.IncludeNoDeadline = ptr(true)
		}
		if out.ShowOverdue == nil || *out.ShowOverdue {
			out.ShowOverdue = ptr(false)
		}
	}

	if isTrue(out.ShowOverdue) && out.DeadlineMinDays != nil && *out.DeadlineMinDays >= 0 {
		out.DeadlineMinDays = ptr(MinDeadlineDays)
	}

	return out
}

// Normalize is Validate for a complete filter.
func Normalize(f Filter) Filter {
	return f.Apply(Validate(f.AsPatch()))
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
