package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/storage/xsnapshot"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

const testAnchor = 1_700_000_000

// sampleSnapshot 返回 5 个条目的快照，从新到旧大小为 100..500，年龄为 50..10 秒。
func sampleSnapshot() digestSnapshot {
	snap := digestSnapshot{AnchorTime: testAnchor}
	for i := range 5 {
		d := xdigest.FromBytes(bytes.Repeat([]byte{byte('a' + i)}, (i+1)*100))
		snap.Items = append(snap.Items, xevict.SnapshotItem[xdigest.Digest]{
			Key:                d,
			SecondsSinceAnchor: int32(50 - 10*i),
		})
	}
	return snap
}

func writeSnapshot(t *testing.T, dir, name, codec string, snap digestSnapshot) string {
	t.Helper()
	c, err := xsnapshot.NewCodec[digestSnapshot](codec)
	if err != nil {
		t.Fatalf("NewCodec(%q): %v", codec, err)
	}
	data, err := c.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func loadSnapshot(t *testing.T, path, codec string) digestSnapshot {
	t.Helper()
	c, err := xsnapshot.NewCodec[digestSnapshot](codec)
	if err != nil {
		t.Fatalf("NewCodec(%q): %v", codec, err)
	}
	snap, err := readSnapshot(context.Background(), c, path)
	if err != nil {
		t.Fatalf("readSnapshot: %v", err)
	}
	return snap
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(context.Background(), append([]string{"xevictctl"}, args...), &out, &errb)
	return code, out.String(), errb.String()
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestInspect(t *testing.T) {
	path := writeSnapshot(t, t.TempDir(), "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())

	code, out, errOut := runCLI(t, "inspect", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}

	for _, want := range []string{
		"anchor:       2023-11-14T22:13:20Z",
		"items:        5",
		"total_bytes:  1500",
		"newest:       2023-11-14T22:14:10Z",
		"oldest:       2023-11-14T22:13:30Z",
		"size_min:     100",
		"size_max:     500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_JSONCodec(t *testing.T) {
	path := writeSnapshot(t, t.TempDir(), "snap.json", xsnapshot.CodecJSON, sampleSnapshot())

	code, out, errOut := runCLI(t, "--codec", "json", "inspect", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "items:        5") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestInspect_WrongCodec(t *testing.T) {
	path := writeSnapshot(t, t.TempDir(), "snap.json", xsnapshot.CodecJSON, sampleSnapshot())

	code, _, _ := runCLI(t, "--codec", "msgpack", "inspect", path)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestInspect_MissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "inspect", filepath.Join(t.TempDir(), "missing.cbor"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "not found") {
		t.Errorf("stderr = %q, want not found", errOut)
	}
}

func TestPrune_MaxCount(t *testing.T) {
	dir := t.TempDir()
	snap := sampleSnapshot()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, snap)
	cfg := writeConfig(t, dir, "eviction:\n  max_count: 2\n")
	outPath := filepath.Join(dir, "pruned.cbor")

	code, out, errOut := runCLI(t, "prune", "--config", cfg, "--out", outPath, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "kept 2 items (300 bytes)") {
		t.Errorf("unexpected output: %s", out)
	}

	pruned := loadSnapshot(t, outPath, xsnapshot.CodecCBOR)
	if pruned.AnchorTime != testAnchor {
		t.Errorf("AnchorTime = %d, want %d", pruned.AnchorTime, testAnchor)
	}
	if len(pruned.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(pruned.Items))
	}
	for i, item := range pruned.Items {
		if item != snap.Items[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, item, snap.Items[i])
		}
	}

	// 输入文件保持不变
	if got := loadSnapshot(t, in, xsnapshot.CodecCBOR); len(got.Items) != 5 {
		t.Errorf("input modified: %d items", len(got.Items))
	}
}

func TestPrune_MaxBytesOverwritesInput(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	// 总量 1500 超过 1000，需降到 1000-400=600 以下：只保留 100+200
	cfg := writeConfig(t, dir, "eviction:\n  max_bytes: 1000\n  evict_bytes: 400\n")

	code, _, errOut := runCLI(t, "prune", "--config", cfg, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if got := loadSnapshot(t, in, xsnapshot.CodecCBOR); len(got.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(got.Items))
	}
}

func TestPrune_CodecFromConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.msgpack", xsnapshot.CodecMsgpack, sampleSnapshot())
	cfg := writeConfig(t, dir, "snapshot:\n  codec: msgpack\n")

	code, _, errOut := runCLI(t, "prune", "--config", cfg, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if got := loadSnapshot(t, in, xsnapshot.CodecMsgpack); len(got.Items) != 5 {
		t.Errorf("len(Items) = %d, want 5", len(got.Items))
	}
}

func TestPrune_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	cfg := writeConfig(t, dir, "eviction:\n  max_seconds: 4294967295\n")

	code, _, _ := runCLI(t, "prune", "--config", cfg, in)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestPrune_EvictBytesCoversLimit(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	cfg := writeConfig(t, dir, "eviction:\n  max_bytes: 1000\n  evict_bytes: 1000\n")

	code, out, errOut := runCLI(t, "prune", "--config", cfg, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "kept 0 items (0 bytes), evicted 5 items (1500 bytes)") {
		t.Errorf("unexpected output: %s", out)
	}
	if got := loadSnapshot(t, in, xsnapshot.CodecCBOR); len(got.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(got.Items))
	}
}

func TestPrune_SnapshotPathFromConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	target := filepath.Join(dir, "state", "pruned.cbor")
	cfg := writeConfig(t, dir, "eviction:\n  max_count: 3\nsnapshot:\n  path: "+target+"\n")

	code, out, errOut := runCLI(t, "prune", "--config", cfg, in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "-> "+target) {
		t.Errorf("unexpected output: %s", out)
	}
	if got := loadSnapshot(t, target, xsnapshot.CodecCBOR); len(got.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(got.Items))
	}
	if got := loadSnapshot(t, in, xsnapshot.CodecCBOR); len(got.Items) != 5 {
		t.Errorf("input modified: %d items", len(got.Items))
	}
}

func TestPrune_RedisFromConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	cfg := writeConfig(t, dir, "eviction:\n  max_count: 1\nsnapshot:\n  redis_key: xcas:snapshot\n")

	code, out, errOut := runCLI(t, "prune", "--config", cfg, "--redis-addr", mr.Addr(), in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "-> redis:xcas:snapshot") {
		t.Errorf("unexpected output: %s", out)
	}

	data, err := mr.Get("xcas:snapshot")
	if err != nil {
		t.Fatalf("redis Get: %v", err)
	}
	c, err := xsnapshot.NewCodec[digestSnapshot](xsnapshot.CodecCBOR)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	snap, err := c.Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0] != sampleSnapshot().Items[0] {
		t.Errorf("Items = %+v, want newest item only", snap.Items)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	snap := sampleSnapshot()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, snap)
	outPath := filepath.Join(dir, "snap.json")

	code, out, errOut := runCLI(t, "convert", "--to", "json", in, outPath)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "converted 5 items") {
		t.Errorf("unexpected output: %s", out)
	}

	got := loadSnapshot(t, outPath, xsnapshot.CodecJSON)
	if got.AnchorTime != snap.AnchorTime || len(got.Items) != len(snap.Items) {
		t.Fatalf("converted snapshot = %+v, want %+v", got, snap)
	}
	for i := range got.Items {
		if got.Items[i] != snap.Items[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, got.Items[i], snap.Items[i])
		}
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())

	tests := []struct {
		name string
		args []string
	}{
		{"unknown_command", []string{"frobnicate"}},
		{"inspect_no_args", []string{"inspect"}},
		{"inspect_extra_args", []string{"inspect", in, in}},
		{"unknown_codec", []string{"--codec", "gob", "inspect", in}},
		{"invalid_log_level", []string{"--log-level", "loud", "inspect", in}},
		{"convert_unknown_target", []string{"convert", "--to", "gob", in, filepath.Join(dir, "x")}},
		{"convert_missing_out", []string{"convert", "--to", "json", in}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2 (stderr: %s)", code, errOut)
			}
		})
	}
}

func TestNoArgsPrintsUsage(t *testing.T) {
	code, out, _ := runCLI(t)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "inspect|prune|convert") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	in := writeSnapshot(t, dir, "snap.cbor", xsnapshot.CodecCBOR, sampleSnapshot())
	logPath := filepath.Join(dir, "logs", "xevictctl.log")

	code, _, errOut := runCLI(t, "--log-level", "debug", "--log-file", logPath, "inspect", in)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "snapshot restored") {
		t.Errorf("log file missing restore record:\n%s", data)
	}
}

func TestFormatUnix(t *testing.T) {
	if got := formatUnix(-1); got != "-" {
		t.Errorf("formatUnix(-1) = %q", got)
	}
	if got := formatUnix(testAnchor); got != "2023-11-14T22:13:20Z" {
		t.Errorf("formatUnix(%d) = %q", testAnchor, got)
	}
}
