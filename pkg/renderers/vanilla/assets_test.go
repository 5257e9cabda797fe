package vanilla

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFS(t *testing.T) {
	script, err := fs.ReadFile(AssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(script), "/events") {
		t.Fatalf("expected runtime script to post to /events")
	}

	if !strings.Contains(defaultStylesheet(), ".slide.active") {
		t.Fatalf("expected stylesheet to style the active slide")
	}
}
