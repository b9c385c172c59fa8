// Package console prints resolved orders as tables, JSON or YAML and asks
// the questions of interactive commands.
package console

import (
	"encoding/json"
	"fmt"
	"io"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/plugin"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var Formats = []string{FormatTable, FormatJSON, FormatYAML}

type ConsoleUI struct {
	out    io.Writer
	format string
}

func New(out io.Writer, format string) (*ConsoleUI, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
	}
	return &ConsoleUI{out: out, format: format}, nil
}

// Bundles prints cfgs, resolved for env, in load order.
func (c *ConsoleUI) Bundles(env string, cfgs bundle.Configs) error {
	if c.format == FormatTable {
		_, err := io.WriteString(c.out, renderBundles(env, cfgs))
		return err
	}
	if cfgs == nil {
		cfgs = bundle.Configs{}
	}
	return c.encode(cfgs)
}

type pluginRow struct {
	Name    string `json:"name" yaml:"name"`
	Bundles bool   `json:"bundles" yaml:"bundles"`
}

func (c *ConsoleUI) Plugins(ins []plugin.Instance) error {
	if c.format == FormatTable {
		_, err := io.WriteString(c.out, renderPlugins(ins))
		return err
	}
	rows := make([]pluginRow, 0, len(ins))
	for _, in := range ins {
		rows = append(rows, pluginRow{Name: in.Name, Bundles: plugin.IsBundlePlugin(in.Plugin)})
	}
	return c.encode(rows)
}

// Changed prints the declaration files that no longer match the lock.
func (c *ConsoleUI) Changed(files []string) error {
	if c.format == FormatTable {
		_, err := io.WriteString(c.out, renderChanged(files))
		return err
	}
	if files == nil {
		files = []string{}
	}
	return c.encode(files)
}

// Drift prints how the resolved order of env moved away from the locked one.
func (c *ConsoleUI) Drift(change manager.OrderChange) error {
	if c.format == FormatTable {
		_, err := io.WriteString(c.out, text.Bold.Sprint(change.Env)+"\n"+orderDiff(change.Locked, change.Current))
		return err
	}
	return c.encode(change)
}

func (c *ConsoleUI) encode(v any) error {
	switch c.format {
	case FormatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q cannot encode values", c.format)
}

// PromptEnvironment asks which environment to resolve, preselecting def.
func PromptEnvironment(def string) (string, error) {
	if def == "" {
		def = config.Production
	}
	env := def
	sel := &survey.Select{
		Message: "Resolve bundles for",
		Options: []string{config.Production, config.Development},
		Default: def,
	}
	if err := survey.AskOne(sel, &env); err != nil {
		return "", err
	}
	return env, nil
}
