package counter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wordgate/internal/cache"
	"wordgate/internal/wordcountpb"
)

func newTestService(t *testing.T, textRoot string) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	local, err := cache.NewLocal(cache.DefaultByteBudget)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	remote, err := cache.NewRemote("redis://"+mr.Addr(), nil)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	return New(textRoot, cache.NewTier(local, remote), nil)
}

func writeSample(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
}

func TestCountScansOnFirstRequest(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "text1.txt", "world hello world\n")
	svc := newTestService(t, dir)

	resp, err := svc.Count(context.Background(), &wordcountpb.WordCountRequest{Word: "world", FileName: "text1.txt"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if resp.Count != 2 || resp.StatusCode != 0 {
		t.Errorf("resp = %+v, want count=2 status_code=0", resp)
	}
}

func TestCountServesFromCacheOnSecondRequest(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "text1.txt", "world hello world\n")
	svc := newTestService(t, dir)
	ctx := context.Background()

	if _, err := svc.Count(ctx, &wordcountpb.WordCountRequest{Word: "world", FileName: "text1.txt"}); err != nil {
		t.Fatalf("first Count: %v", err)
	}

	// Mutate the file; a cached answer must still be served.
	writeSample(t, dir, "text1.txt", "nothing matches here\n")

	resp, err := svc.Count(ctx, &wordcountpb.WordCountRequest{Word: "world", FileName: "text1.txt"})
	if err != nil {
		t.Fatalf("second Count: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("resp.Count = %d, want 2 (cached)", resp.Count)
	}
}

func TestCountZeroOccurrenceIsReturned(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "text1.txt", "nothing here\n")
	svc := newTestService(t, dir)

	resp, err := svc.Count(context.Background(), &wordcountpb.WordCountRequest{Word: "zzz", FileName: "text1.txt"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if resp.Count != 0 || resp.StatusCode != 0 {
		t.Errorf("resp = %+v, want count=0 status_code=0", resp)
	}
}

func TestCountEmptyWordIsValidationError(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "text1.txt", "x\n")
	svc := newTestService(t, dir)

	_, err := svc.Count(context.Background(), &wordcountpb.WordCountRequest{Word: "", FileName: "text1.txt"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("err = %v, want FailedPrecondition", err)
	}
}

func TestCountMissingFileIsValidationError(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	_, err := svc.Count(context.Background(), &wordcountpb.WordCountRequest{Word: "x", FileName: "nope.txt"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("err = %v, want FailedPrecondition", err)
	}
}

func TestCountScanFailureReturnsSentinelAsRPCSuccess(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "text1.txt", "placeholder\n")
	svc := newTestService(t, dir)

	// Make the scan fail after validation has passed: point file_name at a
	// directory, which stats successfully but cannot be read line by line
	// when scanned.
	os.Mkdir(filepath.Join(dir, "adir"), 0o755)

	resp, err := svc.Count(context.Background(), &wordcountpb.WordCountRequest{Word: "x", FileName: "adir"})
	if err != nil {
		t.Fatalf("Count returned RPC error, want sentinel success: %v", err)
	}
	if resp.Count != -1 || resp.StatusCode != 0 {
		t.Errorf("resp = %+v, want count=-1 status_code=0", resp)
	}
}
