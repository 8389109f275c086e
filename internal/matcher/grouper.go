package matcher

import (
	"pos-reconciliation/internal/domain"
)

// bucket holds the records of both sides sharing a (branch, day) key.
type bucket struct {
	branch       string
	day          string
	sources      []*domain.SourceRecord
	counterparts []*domain.CounterpartRecord
}

func bucketKey(branch, day string) string {
	return branch + "::" + day
}

// groupRecords buckets both sides by canonical branch and calendar day.
// Buckets come out in first-appearance order of the source input, followed
// by buckets that only hold counterpart records.
func groupRecords(resolver *BranchResolver, sources []domain.SourceRecord, counterparts []domain.CounterpartRecord) []*bucket {
	var ordered []*bucket
	byKey := make(map[string]*bucket)

	get := func(branch, day string) *bucket {
		key := bucketKey(branch, day)
		b, ok := byKey[key]
		if !ok {
			b = &bucket{branch: branch, day: day}
			byKey[key] = b
			ordered = append(ordered, b)
		}
		return b
	}

	for i := range sources {
		src := &sources[i]
		b := get(resolver.CanonicalBranch(src), domain.DayKey(src.OrderDate))
		b.sources = append(b.sources, src)
	}
	for i := range counterparts {
		cp := &counterparts[i]
		b := get(counterpartBranch(cp), domain.DayKey(cp.CreatedOn))
		b.counterparts = append(b.counterparts, cp)
	}
	return ordered
}
