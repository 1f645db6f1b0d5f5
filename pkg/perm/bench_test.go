package perm

import (
	"context"
	"testing"
)

func BenchmarkAt20(b *testing.B) {
	items := Seq(MaxN)
	rank := factorials[MaxN] / 3
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := At(rank, items); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAll8(b *testing.B) {
	items := Seq(8)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		seq, _ := All(items)
		for range seq {
		}
	}
}

func BenchmarkCollect8(b *testing.B) {
	items := Seq(8)
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Collect(ctx, items, 0, 0, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRankIndices20(b *testing.B) {
	p := decodeIndices(factorials[MaxN]/7, MaxN)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := RankIndices(p); err != nil {
			b.Fatal(err)
		}
	}
}
