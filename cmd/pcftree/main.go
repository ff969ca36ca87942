// Command pcftree prints the element tree of a PCF file: its symbol table,
// then its root particle systems and their children/operators, attributes
// sorted by name at every level.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dresswithpockets/dazzle-core/pkg/dazzle"
	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
	"github.com/dresswithpockets/dazzle-core/pkg/logging"
	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
)

var (
	jsonOutput bool
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "pcftree <path>",
		Short: "Print the element tree of a PCF file",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Dump the tree as indented JSON instead of printing it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := logging.NewLogger("pcftree", logging.GetLogLevel(), nil)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := dazzle.DecodePcf(f, logger)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(p)
	}

	heading := color.New(color.Bold)
	heading.Println(path)
	fmt.Printf("Version: %s\n", p.Version)

	fmt.Println("Symbols")
	symbols := append([]string(nil), p.Symbols.Base.Iter()...)
	sort.Strings(symbols)
	for _, s := range symbols {
		fmt.Printf("  %s\n", s)
	}

	systems := make([]*pcf.ParticleSystem, len(p.Root.Systems))
	for i := range p.Root.Systems {
		systems[i] = &p.Root.Systems[i]
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].Name < systems[j].Name })

	rootLabel := fmt.Sprintf("%s (%x)", p.Root.Name, p.Root.Signature)
	color.New(color.FgCyan).Println(rootLabel)
	for _, sys := range systems {
		printSystem(p, sys, "  ")
	}

	return nil
}

func printSystem(p *pcf.Pcf, sys *pcf.ParticleSystem, indent string) {
	fmt.Printf("%s%s (%x)\n", indent, sys.Name, sys.Signature)
	childIndent := indent + "  "

	printAttributes(p, sys.Attributes, childIndent)

	groups := []struct {
		name string
		ops  []pcf.Operator
	}{
		{"constraints", sys.Constraints},
		{"emitters", sys.Emitters},
		{"forces", sys.Forces},
		{"initializers", sys.Initializers},
		{"operators", sys.Operators},
		{"renderers", sys.Renderers},
	}
	for _, g := range groups {
		if len(g.ops) == 0 {
			continue
		}
		fmt.Printf("%s%s\n", childIndent, g.name)
		ops := append([]pcf.Operator(nil), g.ops...)
		sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
		for _, op := range ops {
			fmt.Printf("%s  %s [%s] (%x)\n", childIndent, op.Name, op.FunctionName, op.Signature)
			printAttributes(p, op.Attributes, childIndent+"    ")
		}
	}

	if len(sys.Children) > 0 {
		fmt.Printf("%schildren\n", childIndent)
		children := append([]pcf.Child(nil), sys.Children...)
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		for _, c := range children {
			fmt.Printf("%s  %s -> %s\n", childIndent, c.Name, p.Root.Systems[c.Child].Name)
			printAttributes(p, c.Attributes, childIndent+"    ")
		}
	}
}

func printAttributes(p *pcf.Pcf, attrs *dmx.AttributeMap, indent string) {
	type entry struct {
		name string
		attr dmx.Attribute
	}
	var entries []entry
	attrs.Each(func(idx dmx.SymbolIdx, attr dmx.Attribute) {
		name, _ := p.Symbols.Base.Get(idx)
		entries = append(entries, entry{name, attr})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	for _, e := range entries {
		fmt.Printf("%s%s: %s\n", indent, e.name, formatAttribute(e.attr))
	}
}

func formatAttribute(a dmx.Attribute) string {
	switch a.Kind {
	case dmx.KindInteger:
		return fmt.Sprintf("%d", a.Integer)
	case dmx.KindFloat:
		return fmt.Sprintf("%.2f", a.Float)
	case dmx.KindBool:
		return fmt.Sprintf("%t", a.Bool)
	case dmx.KindString:
		return a.String
	case dmx.KindBinary:
		return fmt.Sprintf("<%d bytes>", len(a.Binary))
	case dmx.KindColor:
		return fmt.Sprintf("(%d, %d, %d, %d)", a.Color.R, a.Color.G, a.Color.B, a.Color.A)
	case dmx.KindVector2:
		return fmt.Sprintf("(%.2f, %.2f)", a.Vector2.X, a.Vector2.Y)
	case dmx.KindVector3:
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", a.Vector3.X, a.Vector3.Y, a.Vector3.Z)
	case dmx.KindVector4:
		return fmt.Sprintf("(%.2f, %.2f, %.2f, %.2f)", a.Vector4.X, a.Vector4.Y, a.Vector4.Z, a.Vector4.W)
	case dmx.KindMatrix:
		return "<matrix>"
	default:
		return fmt.Sprintf("<%s>", a.Kind)
	}
}

// jsonSystem is the JSON-tree shape for one particle system, mirroring
// the indentation levels of the plain-text tree.
type jsonSystem struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Groups     map[string][]jsonOperator `json:"groups,omitempty"`
	Children   []jsonChild       `json:"children,omitempty"`
}

type jsonOperator struct {
	Name         string            `json:"name"`
	FunctionName string            `json:"functionName"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

type jsonChild struct {
	Name       string            `json:"name"`
	Target     string            `json:"target"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func printJSON(p *pcf.Pcf) error {
	systems := make([]*pcf.ParticleSystem, len(p.Root.Systems))
	for i := range p.Root.Systems {
		systems[i] = &p.Root.Systems[i]
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].Name < systems[j].Name })

	out := struct {
		Path    string       `json:"path"`
		Version string       `json:"version"`
		Symbols []string     `json:"symbols"`
		Root    string       `json:"root"`
		Systems []jsonSystem `json:"systems"`
	}{
		Version: p.Version.String(),
		Root:    p.Root.Name,
	}

	out.Symbols = append([]string(nil), p.Symbols.Base.Iter()...)
	sort.Strings(out.Symbols)

	for _, sys := range systems {
		out.Systems = append(out.Systems, toJSONSystem(p, sys))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONSystem(p *pcf.Pcf, sys *pcf.ParticleSystem) jsonSystem {
	js := jsonSystem{Name: sys.Name, Attributes: attrsToJSON(p, sys.Attributes)}

	groups := []struct {
		name string
		ops  []pcf.Operator
	}{
		{"constraints", sys.Constraints},
		{"emitters", sys.Emitters},
		{"forces", sys.Forces},
		{"initializers", sys.Initializers},
		{"operators", sys.Operators},
		{"renderers", sys.Renderers},
	}
	for _, g := range groups {
		if len(g.ops) == 0 {
			continue
		}
		if js.Groups == nil {
			js.Groups = make(map[string][]jsonOperator)
		}
		ops := append([]pcf.Operator(nil), g.ops...)
		sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
		for _, op := range ops {
			js.Groups[g.name] = append(js.Groups[g.name], jsonOperator{
				Name:         op.Name,
				FunctionName: op.FunctionName,
				Attributes:   attrsToJSON(p, op.Attributes),
			})
		}
	}

	children := append([]pcf.Child(nil), sys.Children...)
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	for _, c := range children {
		js.Children = append(js.Children, jsonChild{
			Name:       c.Name,
			Target:     p.Root.Systems[c.Child].Name,
			Attributes: attrsToJSON(p, c.Attributes),
		})
	}

	return js
}

func attrsToJSON(p *pcf.Pcf, attrs *dmx.AttributeMap) map[string]string {
	if attrs.Len() == 0 {
		return nil
	}
	out := make(map[string]string, attrs.Len())
	attrs.Each(func(idx dmx.SymbolIdx, attr dmx.Attribute) {
		name, _ := p.Symbols.Base.Get(idx)
		out[name] = formatAttribute(attr)
	})
	return out
}
