package requirements

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/comfykit/nodedep/internal/plan"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		wantKind Kind
		wantKey  string
	}{
		{"numpy>=1.0", KindPackage, "numpy"},
		{"NumPy==1.2", KindPackage, "numpy"},
		{"opencv_python-headless", KindPackage, "opencv-python-headless"},
		{"requests[socks]>=2.0", KindPackage, "requests[socks]"},
		{"torch @ https://example.com/torch.whl", KindPackage, "torch"},
		{"git+https://example.com/foo.git", KindVCS, "git+https://example.com/foo.git"},
		{"-e ./local-package", KindVCS, "-e ./local-package"},
		{"--editable=./pkg", KindVCS, "--editable=./pkg"},
		{"===broken===", KindOther, "===broken==="},
	}

	for _, tt := range tests {
		entry := ParseLine(tt.line)
		if entry == nil {
			t.Errorf("ParseLine(%q) = nil, want %s", tt.line, tt.wantKind)
			continue
		}
		if entry.Kind != tt.wantKind {
			t.Errorf("ParseLine(%q).Kind = %s, want %s", tt.line, entry.Kind, tt.wantKind)
		}
		if entry.Key != tt.wantKey {
			t.Errorf("ParseLine(%q).Key = %q, want %q", tt.line, entry.Key, tt.wantKey)
		}
	}
}

func TestParseLineSkips(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"# comment",
		"-r other.txt",
		"--requirement other.txt",
		"-c constraints.txt",
		"--constraint constraints.txt",
	} {
		if entry := ParseLine(line); entry != nil {
			t.Errorf("ParseLine(%q) = %+v, want nil", line, entry)
		}
	}
}

func writeReqFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clonedPlan(reqFiles ...string) *plan.PluginPlan {
	return &plan.PluginPlan{Status: plan.StatusCloned, Requirements: reqFiles}
}

func TestCollectDedupsAgainstBaseline(t *testing.T) {
	tmpDir := t.TempDir()
	baseline := writeReqFile(t, tmpDir, "baseline.txt", "numpy>=1.0\n")
	reqs := writeReqFile(t, tmpDir, "requirements.txt",
		"NumPy==1.2\ngit+https://example.com/foo.git\n")

	seen := NewSeen()
	seen.LoadBaselines([]string{baseline})

	collected := Collect([]*plan.PluginPlan{clonedPlan(reqs)}, seen)
	want := []string{"git+https://example.com/foo.git"}
	if !reflect.DeepEqual(collected, want) {
		t.Errorf("collected = %v, want %v", collected, want)
	}
}

func TestCollectFirstOccurrenceWins(t *testing.T) {
	tmpDir := t.TempDir()
	first := writeReqFile(t, tmpDir, "requirements-a.txt", "Pillow>=9\nscipy\n")
	second := writeReqFile(t, tmpDir, "requirements-b.txt", "pillow==10.0\ntqdm\n")

	collected := Collect([]*plan.PluginPlan{clonedPlan(first), clonedPlan(second)}, NewSeen())
	want := []string{"Pillow>=9", "scipy", "tqdm"}
	if !reflect.DeepEqual(collected, want) {
		t.Errorf("collected = %v, want %v", collected, want)
	}
}

func TestCollectIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	baseline := writeReqFile(t, tmpDir, "baseline.txt", "torch\n")
	reqs := writeReqFile(t, tmpDir, "requirements.txt", "torch\neinops\n")
	plans := []*plan.PluginPlan{clonedPlan(reqs)}

	run := func() []string {
		seen := NewSeen()
		seen.LoadBaselines([]string{baseline})
		return Collect(plans, seen)
	}

	firstRun := run()
	secondRun := run()
	if !reflect.DeepEqual(firstRun, secondRun) {
		t.Errorf("second run = %v, want %v", secondRun, firstRun)
	}
	if !reflect.DeepEqual(firstRun, []string{"einops"}) {
		t.Errorf("collected = %v, want [einops]", firstRun)
	}
}

func TestCollectSkipsFailedPlans(t *testing.T) {
	tmpDir := t.TempDir()
	reqs := writeReqFile(t, tmpDir, "requirements.txt", "numpy\n")

	failed := &plan.PluginPlan{Status: plan.StatusFailed, Requirements: []string{reqs}}
	if collected := Collect([]*plan.PluginPlan{failed}, NewSeen()); len(collected) != 0 {
		t.Errorf("collected from failed plan = %v, want none", collected)
	}

	skipped := &plan.PluginPlan{Status: plan.StatusSkipped, Requirements: []string{reqs}}
	if collected := Collect([]*plan.PluginPlan{skipped}, NewSeen()); len(collected) != 1 {
		t.Errorf("collected from skipped plan = %v, want the numpy line", collected)
	}
}

func TestWriteOutputRemovesStaleFile(t *testing.T) {
	tmpDir := t.TempDir()
	out := filepath.Join(tmpDir, "requirements-extra.txt")

	if err := WriteOutput(out, []string{"numpy", "einops"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "numpy\neinops\n" {
		t.Errorf("output = %q, want lines with single trailing newline", data)
	}

	if err := WriteOutput(out, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("stale output file still exists after empty write")
	}

	// Removing an absent file is not an error.
	if err := WriteOutput(out, nil); err != nil {
		t.Errorf("WriteOutput on absent file: %v", err)
	}
}
