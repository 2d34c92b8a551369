package xlru

import "testing"

func BenchmarkOrdered_Put(b *testing.B) {
	o := New[int, int]()
	i := 0
	b.ReportAllocs()
	for b.Loop() {
		o.Put(i&0xffff, i)
		i++
	}
}

func BenchmarkOrdered_Get(b *testing.B) {
	o := New[int, int]()
	for i := range 1024 {
		o.Put(i, i)
	}
	i := 0
	b.ReportAllocs()
	for b.Loop() {
		o.Get(i & 1023)
		i++
	}
}
