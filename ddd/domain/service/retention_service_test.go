package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"hls-service/pkg/logger"
	"hls-service/pkg/storagepath"
)

var sweepNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type sweepFixture struct {
	layout storagepath.Layout
	svc    *retentionServiceImpl
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	root := t.TempDir()
	layout := storagepath.Layout{RawDir: filepath.Join(root, "videos"), HLSDir: filepath.Join(root, "hls")}
	if err := layout.EnsureAll(); err != nil {
		t.Fatal(err)
	}
	return &sweepFixture{
		layout: layout,
		svc:    newRetentionService(layout, func() time.Time { return sweepNow }, logger.Discard()),
	}
}

func (f *sweepFixture) file(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.touch(t, path, age)
}

func (f *sweepFixture) pkg(t *testing.T, name string, age time.Duration) {
	t.Helper()
	dir := filepath.Join(f.layout.HLSDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "master.m3u8"), []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.touch(t, dir, age)
}

func (f *sweepFixture) touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	mt := sweepNow.Add(-age)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatal(err)
	}
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	got := dirEntries(t, dir)
	sort.Strings(got)
	return got
}

const day = 24 * time.Hour

func TestSweepRemovesOnlyAgedEntries(t *testing.T) {
	f := newSweepFixture(t)
	f.file(t, f.layout.RawDir, "old.mp4", 31*day)
	f.file(t, f.layout.RawDir, "new.mp4", 29*day)
	f.file(t, f.layout.RawDir, "edge.mp4", 30*day) // exactly at the cutoff
	f.pkg(t, "video_old", 40*day)
	f.pkg(t, "video_new", time.Hour)
	// wrong kind for each root
	if err := os.MkdirAll(filepath.Join(f.layout.RawDir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	f.touch(t, filepath.Join(f.layout.RawDir, "subdir"), 90*day)
	f.file(t, f.layout.HLSDir, "stray.txt", 90*day)

	removed, err := f.svc.Sweep(context.Background(), 30)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if got, want := names(t, f.layout.RawDir), []string{"edge.mp4", "new.mp4", "subdir"}; !equal(got, want) {
		t.Errorf("raw = %v, want %v", got, want)
	}
	if got, want := names(t, f.layout.HLSDir), []string{"stray.txt", "video_new"}; !equal(got, want) {
		t.Errorf("hls = %v, want %v", got, want)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newSweepFixture(t)
	f.file(t, f.layout.RawDir, "old.mp4", 10*day)
	f.pkg(t, "video_old", 10*day)

	first, err := f.svc.Sweep(context.Background(), 7)
	if err != nil || first != 2 {
		t.Fatalf("first Sweep() = %d, %v", first, err)
	}
	second, err := f.svc.Sweep(context.Background(), 7)
	if err != nil || second != 0 {
		t.Errorf("second Sweep() = %d, %v, want 0", second, err)
	}
}

func TestSweepDisabled(t *testing.T) {
	for _, days := range []int{0, -1} {
		f := newSweepFixture(t)
		f.file(t, f.layout.RawDir, "ancient.mp4", 3650*day)
		f.pkg(t, "video_ancient", 3650*day)

		removed, err := f.svc.Sweep(context.Background(), days)
		if err != nil || removed != 0 {
			t.Errorf("Sweep(%d) = %d, %v", days, removed, err)
		}
		if len(names(t, f.layout.RawDir)) != 1 || len(names(t, f.layout.HLSDir)) != 1 {
			t.Errorf("Sweep(%d) removed entries", days)
		}
	}
}

func TestSweepMissingRoots(t *testing.T) {
	root := t.TempDir()
	layout := storagepath.Layout{RawDir: filepath.Join(root, "nope"), HLSDir: filepath.Join(root, "nada")}
	svc := newRetentionService(layout, time.Now, logger.Discard())
	if removed, err := svc.Sweep(context.Background(), 1); err != nil || removed != 0 {
		t.Errorf("Sweep() = %d, %v", removed, err)
	}
}

func TestSweepStopsOnCancel(t *testing.T) {
	f := newSweepFixture(t)
	f.file(t, f.layout.RawDir, "old.mp4", 10*day)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.svc.Sweep(ctx, 1); err == nil {
		t.Error("Sweep() with cancelled context should fail")
	}
	if len(names(t, f.layout.RawDir)) != 1 {
		t.Error("cancelled sweep removed entries")
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
