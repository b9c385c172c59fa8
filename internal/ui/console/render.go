package console

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/plugin"
)

func renderBundles(env string, cfgs bundle.Configs) string {
	var b strings.Builder
	b.WriteString(text.Bold.Sprint(env) + "\n")
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Bundle", "Load after", "Replaces"})
	for i, c := range cfgs {
		tw.AppendRow(table.Row{i + 1, c.Name, orDash(c.LoadAfter), orDash(c.Replace)})
	}
	b.WriteString(tw.Render())
	b.WriteString("\n")
	return b.String()
}

func renderPlugins(ins []plugin.Instance) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Package", "Bundles"})
	for i, in := range ins {
		tw.AppendRow(table.Row{i + 1, in.Name, yesNo(plugin.IsBundlePlugin(in.Plugin))})
	}
	return tw.Render() + "\n"
}

func renderChanged(files []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Changed declaration"})
	for _, f := range files {
		tw.AppendRow(table.Row{f})
	}
	return tw.Render() + "\n"
}

func orDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func yesNo(v bool) string { return strconv.FormatBool(v) }
