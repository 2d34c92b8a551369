package xevict

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/omeyang/xcas/xevict"

// 指标名称。
const (
	MetricMaxBytes        = "xevict.config.max_bytes"
	MetricEvictBytes      = "xevict.config.evict_bytes"
	MetricMaxSeconds      = "xevict.config.max_seconds"
	MetricMaxCount        = "xevict.config.max_count"
	MetricAnchorTimestamp = "xevict.anchor.timestamp"
	MetricStoreSize       = "xevict.store.size"
	MetricStoreItems      = "xevict.store.items"
	MetricOldestTimestamp = "xevict.item.oldest.timestamp"
	MetricNewestTimestamp = "xevict.item.newest.timestamp"
	MetricItemSize        = "xevict.item.size"
	MetricEvictedItems    = "xevict.evicted.items"
	MetricEvictedBytes    = "xevict.evicted.bytes"
	MetricReplacedItems   = "xevict.replaced.items"
	MetricReplacedBytes   = "xevict.replaced.bytes"
	MetricRemovedItems    = "xevict.removed.items"
	MetricRemovedBytes    = "xevict.removed.bytes"
	MetricInsertedBytes   = "xevict.inserted.bytes"
	attrStore             = "store"
	attrStat              = "stat"
)

type gaugeSpec struct {
	name, unit, desc string
	read             func(*Stats) int64
}

var gaugeSpecs = []gaugeSpec{
	{MetricMaxBytes, "By", "Maximum size of the store in bytes", func(s *Stats) int64 { return clampInt64(s.MaxBytes) }},
	{MetricEvictBytes, "By", "Bytes freed beyond the limit when the store is full", func(s *Stats) int64 { return clampInt64(s.EvictBytes) }},
	{MetricMaxSeconds, "s", "Maximum age of an item", func(s *Stats) int64 { return int64(s.MaxSeconds) }},
	{MetricMaxCount, "{item}", "Maximum number of items", func(s *Stats) int64 { return clampInt64(s.MaxCount) }},
	{MetricAnchorTimestamp, "s", "Anchor time of the store", func(s *Stats) int64 { return s.AnchorTimestamp }},
	{MetricStoreSize, "By", "Total size of all items in the store", func(s *Stats) int64 { return clampInt64(s.SumStoreSizeBytes) }},
	{MetricStoreItems, "{item}", "Number of items in the store", func(s *Stats) int64 { return int64(s.ItemsInStore) }},
	{MetricOldestTimestamp, "s", "Timestamp of the oldest item, -1 when empty", func(s *Stats) int64 { return s.OldestItemTimestamp }},
	{MetricNewestTimestamp, "s", "Timestamp of the newest item, -1 when empty", func(s *Stats) int64 { return s.NewestItemTimestamp }},
}

var counterSpecs = []gaugeSpec{
	{MetricEvictedItems, "{item}", "Items evicted by policy", func(s *Stats) int64 { return clampInt64(s.EvictedItems.Value) }},
	{MetricEvictedBytes, "By", "Bytes evicted by policy", func(s *Stats) int64 { return clampInt64(s.EvictedBytes) }},
	{MetricReplacedItems, "{item}", "Items replaced by a newer value", func(s *Stats) int64 { return clampInt64(s.ReplacedItems.Value) }},
	{MetricReplacedBytes, "By", "Bytes replaced by a newer value", func(s *Stats) int64 { return clampInt64(s.ReplacedBytes) }},
	{MetricRemovedItems, "{item}", "Items explicitly removed", func(s *Stats) int64 { return clampInt64(s.RemovedItems.Value) }},
	{MetricRemovedBytes, "By", "Bytes explicitly removed", func(s *Stats) int64 { return clampInt64(s.RemovedBytes) }},
	{MetricInsertedBytes, "By", "Bytes inserted since creation", func(s *Stats) int64 { return clampInt64(s.LifetimeInsertedBytes) }},
}

// RegisterMetrics 把 Stats 导出为 OpenTelemetry 可观测指标，所有读数带 store 属性。
// meter 为 nil 时使用全局 MeterProvider。返回的 Registration 用于注销回调。
func (m *EvictingMap[K, T]) RegisterMetrics(meter metric.Meter, store string) (metric.Registration, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	gauges := make([]metric.Int64ObservableGauge, len(gaugeSpecs))
	observables := make([]metric.Observable, 0, len(gaugeSpecs)+len(counterSpecs)+1)
	for i, spec := range gaugeSpecs {
		g, err := meter.Int64ObservableGauge(spec.name, metric.WithUnit(spec.unit), metric.WithDescription(spec.desc))
		if err != nil {
			return nil, fmt.Errorf("xevict: create gauge %s: %w", spec.name, err)
		}
		gauges[i] = g
		observables = append(observables, g)
	}
	counters := make([]metric.Int64ObservableCounter, len(counterSpecs))
	for i, spec := range counterSpecs {
		c, err := meter.Int64ObservableCounter(spec.name, metric.WithUnit(spec.unit), metric.WithDescription(spec.desc))
		if err != nil {
			return nil, fmt.Errorf("xevict: create counter %s: %w", spec.name, err)
		}
		counters[i] = c
		observables = append(observables, c)
	}
	itemSize, err := meter.Int64ObservableGauge(MetricItemSize,
		metric.WithUnit("By"),
		metric.WithDescription("Size distribution of the newest 1,000,000 items"))
	if err != nil {
		return nil, fmt.Errorf("xevict: create gauge %s: %w", MetricItemSize, err)
	}
	observables = append(observables, itemSize)

	base := attribute.String(attrStore, store)
	storeAttrs := metric.WithAttributes(base)
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := m.Stats()
		for i, spec := range gaugeSpecs {
			o.ObserveInt64(gauges[i], spec.read(&s), storeAttrs)
		}
		for i, spec := range counterSpecs {
			o.ObserveInt64(counters[i], spec.read(&s), storeAttrs)
		}
		if s.ItemSize.Count == 0 {
			return nil
		}
		for _, kv := range []struct {
			stat string
			v    uint64
		}{
			{"min", s.ItemSize.Min},
			{"max", s.ItemSize.Max},
			{"p50", s.ItemSize.P50},
			{"p90", s.ItemSize.P90},
			{"p99", s.ItemSize.P99},
		} {
			o.ObserveInt64(itemSize, clampInt64(kv.v), metric.WithAttributes(base, attribute.String(attrStat, kv.stat)))
		}
		return nil
	}, observables...)
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
