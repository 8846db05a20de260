// Package algo has the grouping, ranking and confidence math behind learned insights.
package algo

import (
	"cmp"
	"slices"
)

// Bucket aggregates the values of all samples sharing a key.
type Bucket[K comparable] struct {
	Key   K
	Count int
	Sum   float64
}

// Mean returns the average value in the bucket, or 0 when it is empty.
func (b Bucket[K]) Mean() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.Sum / float64(b.Count)
}

// GroupBy buckets items by key, summing value(item) per bucket.
// Buckets are returned in first-seen key order.
func GroupBy[T any, K comparable](items []T, key func(T) K, value func(T) float64) []Bucket[K] {
	index := make(map[K]int)
	var buckets []Bucket[K]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket[K]{Key: k})
		}
		buckets[i].Count++
		buckets[i].Sum += value(it)
	}
	return buckets
}

// RankBuckets sorts buckets by mean in descending order, breaking ties with keyCmp,
// and returns the top 'limit' buckets. If limit is greater than the number
// of buckets, all buckets are returned in sorted order.
func RankBuckets[K comparable](buckets []Bucket[K], limit int, keyCmp func(a, b K) int) []Bucket[K] {
	ranked := slices.Clone(buckets)
	slices.SortStableFunc(ranked, func(a, b Bucket[K]) int {
		if c := cmp.Compare(b.Mean(), a.Mean()); c != 0 {
			return c
		}
		return keyCmp(a.Key, b.Key)
	})
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// BestBucket returns the highest-mean bucket holding at least minCount samples.
// Ties are broken with keyCmp. The boolean is false when no bucket qualifies.
func BestBucket[K comparable](buckets []Bucket[K], minCount int, keyCmp func(a, b K) int) (Bucket[K], bool) {
	var eligible []Bucket[K]
	for _, b := range buckets {
		if b.Count >= minCount {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return Bucket[K]{}, false
	}
	return RankBuckets(eligible, 1, keyCmp)[0], true
}

// Confidence returns count/full capped at 1.
func Confidence(count, full int) float64 {
	if full <= 0 || count <= 0 {
		return 0
	}
	return min(float64(count)/float64(full), 1)
}

// Mean returns the average of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MeanNonZero averages only the nonzero values, returning 0 when all are zero.
func MeanNonZero(values ...float64) float64 {
	var nonZero []float64
	for _, v := range values {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	return Mean(nonZero)
}
