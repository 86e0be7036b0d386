package launcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/taskmap/taskmap/internal/obslog"
)

func TestCheckOnPath_MissingLauncher(t *testing.T) {
	if err := CheckOnPath("a-launcher-binary-that-does-not-exist"); err == nil {
		t.Fatal("expected an error for a launcher not on PATH")
	}
}

func TestCheckOnPath_Found(t *testing.T) {
	if err := CheckOnPath("sh"); err != nil {
		t.Fatalf("CheckOnPath returned error: %v", err)
	}
}

// fakeLauncher writes a shell script standing in for srun: it ignores
// its arguments and runs the caller's script, which prints probe lines
// and non-JSON lines to exercise the tolerant decode path.
func fakeLauncher(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-srun")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	return path
}

func TestDiscover_TolerantOfMalformedLines(t *testing.T) {
	script := `
echo 'a banner line from the launcher'
echo '{"host":"h1","rank":0,"numa":[0],"pu":[[0,1]]}'
echo 'another stray line'
echo '{"host":"h1","rank":1,"numa":[0],"pu":[[2,3]]}'
`
	bin := fakeLauncher(t, script)

	reports, err := Discover(context.Background(), bin, obslog.NoOpLogger{})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Host != "h1" || reports[1].Rank != 1 {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestDiscover_EmptyOutputIsDiscoveryError(t *testing.T) {
	bin := fakeLauncher(t, "echo 'nothing useful here'\n")

	_, err := Discover(context.Background(), bin, obslog.NoOpLogger{})
	if err == nil {
		t.Fatal("expected an error when discovery yields zero usable reports")
	}
}
