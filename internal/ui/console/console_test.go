package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/plugin"
)

func sampleConfigs() bundle.Configs {
	return bundle.Configs{
		bundle.NewConfig("CoreBundle"),
		bundle.NewConfig("NewsBundle").WithLoadAfter("CoreBundle"),
	}
}

func TestRenderBundles(t *testing.T) {
	out := renderBundles("production", sampleConfigs())
	if !strings.Contains(out, "production") {
		t.Fatalf("environment not rendered: %q", out)
	}
	core := strings.Index(out, "CoreBundle")
	news := strings.Index(out, "NewsBundle")
	if core < 0 || news < 0 || core > news {
		t.Fatalf("bundles not rendered in order: %q", out)
	}
	if !strings.Contains(out, "-") {
		t.Fatalf("empty columns should show a dash: %q", out)
	}
}

func TestConsoleUI_BundlesJSON(t *testing.T) {
	var buf bytes.Buffer
	ui, err := New(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ui.Bundles("production", sampleConfigs()); err != nil {
		t.Fatalf("Bundles: %v", err)
	}
	var got []bundle.Config
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].Name != "NewsBundle" || got[1].LoadAfter[0] != "CoreBundle" {
		t.Fatalf("unexpected JSON: %s", buf.String())
	}
}

func TestConsoleUI_EmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	ui, _ := New(&buf, FormatJSON)
	if err := ui.Bundles("development", nil); err != nil {
		t.Fatalf("Bundles: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("want [], got %q", buf.String())
	}
}

func TestConsoleUI_PluginsYAML(t *testing.T) {
	var buf bytes.Buffer
	ui, _ := New(&buf, FormatYAML)
	ins := []plugin.Instance{
		{Name: "vendor/news", Plugin: plugin.NewPackagePlugin(plugin.ManifestPackage{Name: "vendor/news"}, "", "")},
		{Name: "vendor/other", Plugin: struct{}{}},
	}
	if err := ui.Plugins(ins); err != nil {
		t.Fatalf("Plugins: %v", err)
	}
	var got []pluginRow
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got) != 2 || !got[0].Bundles || got[1].Bundles {
		t.Fatalf("unexpected YAML: %s", buf.String())
	}
}

func TestConsoleUI_ChangedTable(t *testing.T) {
	var buf bytes.Buffer
	ui, _ := New(&buf, "")
	if err := ui.Changed([]string{"config/bundles.json"}); err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if !strings.Contains(buf.String(), "config/bundles.json") {
		t.Fatalf("file not rendered: %q", buf.String())
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestOrderDiff(t *testing.T) {
	out := orderDiff([]string{"Core", "News", "App"}, []string{"Core", "App", "Faq"})
	for _, want := range []string{"  Core\n", "- News", "+ Faq"} {
		if !strings.Contains(out, want) {
			t.Fatalf("diff lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "- Core") {
		t.Fatalf("unchanged line reported as removed:\n%s", out)
	}
}

func TestConsoleUI_DriftJSON(t *testing.T) {
	var buf bytes.Buffer
	ui, _ := New(&buf, FormatJSON)
	if err := ui.Drift(manager.OrderChange{Env: "production", Locked: []string{"A"}, Current: []string{"B"}}); err != nil {
		t.Fatalf("Drift: %v", err)
	}
	if !strings.Contains(buf.String(), `"current"`) {
		t.Fatalf("unexpected JSON: %s", buf.String())
	}
}
