package session

import "github.com/iksnae/ragchat/internal"

// DefaultCategory labels records that have no columns at all
const DefaultCategory = "Item"

// Aggregate counts records per category. Buckets keep the order in which
// each category first appears; counts always sum to len(ds).
func Aggregate(ds internal.Dataset) []internal.ChartBucket {
	if len(ds) == 0 {
		return nil
	}
	index := make(map[string]int)
	var buckets []internal.ChartBucket
	for _, rec := range ds {
		label := CategoryOf(rec)
		if i, ok := index[label]; ok {
			buckets[i].Count++
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, internal.ChartBucket{Label: label, Count: 1})
	}
	return buckets
}

// CategoryOf picks the category key of a record: its "Type" field
// (any casing), else its first column, else DefaultCategory.
func CategoryOf(rec internal.Record) string {
	for _, key := range []string{"Type", "type"} {
		if _, ok := rec.Get(key); ok {
			return rec.Text(key)
		}
	}
	if key, ok := rec.FoldKey("type"); ok {
		return rec.Text(key)
	}
	if keys := rec.Keys(); len(keys) > 0 {
		return rec.Text(keys[0])
	}
	return DefaultCategory
}
