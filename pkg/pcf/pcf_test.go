package pcf

import (
	"bytes"
	"testing"

	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
)

// buildTwoSystems returns a Pcf with two particle systems, "sys_a" (one
// initializer operator "op_a" with a float "radius" attribute) and
// "sys_b" (no operators), with sys_a.children -> sys_b.
func buildTwoSystems() *Pcf {
	p := NewEmpty(dmx.VersionBinary2Pcf1, "untitled", dmx.Signature{})

	opA := Operator{
		Name:         "op_a",
		FunctionName: "init_A",
		Attributes:   dmx.NewAttributeMap(),
	}
	opA.Attributes.Set(mustInsert(p.Symbols.Base, "radius"), dmx.NewFloatAttr(5.0))

	sysA := ParticleSystem{
		Name:         "sys_a",
		Attributes:   dmx.NewAttributeMap(),
		Initializers: []Operator{opA},
		Children: []Child{
			{Name: "child_0", Child: 1, Attributes: dmx.NewAttributeMap()},
		},
	}
	sysB := ParticleSystem{
		Name:       "sys_b",
		Attributes: dmx.NewAttributeMap(),
	}

	p.Root.Systems = []ParticleSystem{sysA, sysB}
	return p
}

func mustInsert(base *dmx.Symbols, s string) dmx.SymbolIdx {
	idx, _ := base.Insert(s)
	return idx
}

func encodeRoundTrip(t *testing.T, p *Pcf) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := p.ToDmx().Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPcfFromDmxToDmxRoundTrip(t *testing.T) {
	original := buildTwoSystems()
	encoded := encodeRoundTrip(t, original)

	decoded, err := dmx.Decode(bytes.NewReader(encoded), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	reimported, err := FromDmx(decoded)
	if err != nil {
		t.Fatalf("FromDmx: %v", err)
	}

	if len(reimported.Root.Systems) != 2 {
		t.Fatalf("expected 2 systems, got %d", len(reimported.Root.Systems))
	}
	if reimported.Root.Systems[0].Name != "sys_a" || reimported.Root.Systems[1].Name != "sys_b" {
		t.Errorf("system names/order not preserved: %+v", reimported.Root.Systems)
	}
	if len(reimported.Root.Systems[0].Children) != 1 || reimported.Root.Systems[0].Children[0].Child != 1 {
		t.Errorf("child link not preserved: %+v", reimported.Root.Systems[0].Children)
	}
	if len(reimported.Root.Systems[0].Initializers) != 1 {
		t.Fatalf("expected 1 initializer, got %d", len(reimported.Root.Systems[0].Initializers))
	}
	if reimported.Root.Systems[0].Initializers[0].FunctionName != "init_A" {
		t.Errorf("functionName not preserved: %q", reimported.Root.Systems[0].Initializers[0].FunctionName)
	}

	reencoded := encodeRoundTrip(t, reimported)
	if !bytes.Equal(encoded, reencoded) {
		t.Errorf("re-encoding a re-imported Pcf produced different bytes")
	}
}

// TestEncodedSizeMatchesEncode is the cornerstone law from spec.md §8.4:
// for all valid P, encoded_size(P) == len(encode(P)).
func TestEncodedSizeMatchesEncode(t *testing.T) {
	p := buildTwoSystems()
	encoded := encodeRoundTrip(t, p)
	if got, want := p.EncodedSize(), len(encoded); got != want {
		t.Errorf("EncodedSize() = %d, actual encoded length = %d", got, want)
	}
}

// TestMergedSizeMatchesMergeThenEncode is spec.md §8.3, the cornerstone
// size-predictor law: encoded_size(merge(P, Q)) == merged_size(P, Q).
func TestMergedSizeMatchesMergeThenEncode(t *testing.T) {
	p := buildTwoSystems()
	q := buildTwoSystems()

	predicted := p.MergedSize(q)

	merged, err := p.Merge(q)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if got := merged.EncodedSize(); got != predicted {
		t.Errorf("EncodedSize(Merge(P, Q)) = %d, MergedSize(P, Q) = %d", got, predicted)
	}

	encoded := encodeRoundTrip(t, merged)
	if len(encoded) != predicted {
		t.Errorf("len(encode(Merge(P, Q))) = %d, MergedSize(P, Q) = %d", len(encoded), predicted)
	}
}

func TestMergeVersionMismatch(t *testing.T) {
	p := NewEmpty(dmx.VersionBinary2Pcf1, "untitled", dmx.Signature{})
	q := NewEmpty(dmx.VersionBinary3Pcf1, "untitled", dmx.Signature{})

	if _, err := p.Merge(q); err == nil {
		t.Fatal("expected a version-mismatch error, got nil")
	}
}

// TestDefaultsStrippedEmptyIsNoop is spec.md §8.6: defaults_stripped(P, ∅,
// ∅) == P.
func TestDefaultsStrippedEmptyIsNoop(t *testing.T) {
	p := buildTwoSystems()
	before := p.EncodedSize()

	stripped := p.DefaultsStripped(nil, nil)

	if got := stripped.EncodedSize(); got != before {
		t.Errorf("stripping with empty defaults changed size: %d -> %d", before, got)
	}
}

// TestDefaultsStrippedRemovesMatchingOperatorAttr is spec.md §8 S2: after
// stripping operatorDefaults{"radius": 5.0}, the operator carries zero
// attributes beyond functionName, and size drops by exactly 2+1+4=7 bytes.
func TestDefaultsStrippedRemovesMatchingOperatorAttr(t *testing.T) {
	p := buildTwoSystems()
	before := p.EncodedSize()

	stripped := p.DefaultsStripped(nil, OperatorDefaults{
		"init_A": {"radius": dmx.NewFloatAttr(5.0)},
	})

	op := stripped.Root.Systems[0].Initializers[0]
	if op.Attributes.Len() != 0 {
		t.Errorf("expected 0 attributes after stripping, got %d", op.Attributes.Len())
	}

	after := stripped.EncodedSize()
	if before-after != 7 {
		t.Errorf("expected size to drop by 7 bytes, dropped by %d", before-after)
	}
}

// TestUnusedSymbolsStrippedIdempotent is spec.md §8.5.
func TestUnusedSymbolsStrippedIdempotent(t *testing.T) {
	p := buildTwoSystems()

	once := p.UnusedSymbolsStripped()
	twice := once.UnusedSymbolsStripped()

	if once.Symbols.Base.Len() != twice.Symbols.Base.Len() {
		t.Fatalf("symbol count changed on second strip: %d -> %d", once.Symbols.Base.Len(), twice.Symbols.Base.Len())
	}
	for i, s := range once.Symbols.Base.Iter() {
		s2, _ := twice.Symbols.Base.Get(dmx.SymbolIdx(i))
		if s != s2 {
			t.Errorf("symbol %d differs after second strip: %q vs %q", i, s, s2)
		}
	}
}

// TestIntoConnectedSingleComponent is spec.md §8 S3's first scenario: two
// systems p, d with p.children = [{child -> 1}] produce a single component
// containing both.
func TestIntoConnectedSingleComponent(t *testing.T) {
	pcf := buildTwoSystems()

	parts := pcf.IntoConnected()
	if len(parts) != 1 {
		t.Fatalf("expected 1 component, got %d", len(parts))
	}
	if len(parts[0].Root.Systems) != 2 {
		t.Fatalf("expected 2 systems in the single component, got %d", len(parts[0].Root.Systems))
	}
}

// TestIntoConnectedTwoComponents is spec.md §8 S3's second scenario: four
// systems p, d, q, r with p.children=[{child->1}], q.children=[{child->3}]
// split into two components [{p,d}, {q,r}], each remapped to {0->1}.
func TestIntoConnectedTwoComponents(t *testing.T) {
	pcf := NewEmpty(dmx.VersionBinary2Pcf1, "untitled", dmx.Signature{})
	mk := func(name string) ParticleSystem {
		return ParticleSystem{Name: name, Attributes: dmx.NewAttributeMap()}
	}
	p, d, q, r := mk("p"), mk("d"), mk("q"), mk("r")
	p.Children = []Child{{Name: "c0", Child: 1, Attributes: dmx.NewAttributeMap()}}
	q.Children = []Child{{Name: "c0", Child: 3, Attributes: dmx.NewAttributeMap()}}
	pcf.Root.Systems = []ParticleSystem{p, d, q, r}

	parts := pcf.IntoConnected()
	if len(parts) != 2 {
		t.Fatalf("expected 2 components, got %d", len(parts))
	}

	first, second := parts[0], parts[1]
	if len(first.Root.Systems) != 2 || first.Root.Systems[0].Name != "p" || first.Root.Systems[1].Name != "d" {
		t.Fatalf("first component mismatch: %+v", first.Root.Systems)
	}
	if len(second.Root.Systems) != 2 || second.Root.Systems[0].Name != "q" || second.Root.Systems[1].Name != "r" {
		t.Fatalf("second component mismatch: %+v", second.Root.Systems)
	}

	if len(first.Root.Systems[0].Children) != 1 || first.Root.Systems[0].Children[0].Child != 1 {
		t.Errorf("first component child remap wrong: %+v", first.Root.Systems[0].Children)
	}
	if len(second.Root.Systems[0].Children) != 1 || second.Root.Systems[0].Children[0].Child != 1 {
		t.Errorf("second component child remap wrong: %+v", second.Root.Systems[0].Children)
	}

	total := 0
	for _, part := range parts {
		total += len(part.Root.Systems)
	}
	if total != 4 {
		t.Errorf("expected every system to appear in exactly one component, got %d total", total)
	}
}

// TestIntoConnectedAscendingIndexOrderWithinComponent guards against BFS
// discovery order leaking into the output: system 0 here links to its
// neighbors out of ascending order ([2, 1] rather than [1, 2]), so a
// naive BFS would discover 2 before 1 and yield component order
// [0, 2, 1]. spec.md §5/§8 require ascending original-index order within
// a component regardless of child-list order.
func TestIntoConnectedAscendingIndexOrderWithinComponent(t *testing.T) {
	pcf := NewEmpty(dmx.VersionBinary2Pcf1, "untitled", dmx.Signature{})
	mk := func(name string) ParticleSystem {
		return ParticleSystem{Name: name, Attributes: dmx.NewAttributeMap()}
	}
	sys0, sys1, sys2 := mk("sys0"), mk("sys1"), mk("sys2")
	sys0.Children = []Child{
		{Name: "c0", Child: 2, Attributes: dmx.NewAttributeMap()},
		{Name: "c1", Child: 1, Attributes: dmx.NewAttributeMap()},
	}
	pcf.Root.Systems = []ParticleSystem{sys0, sys1, sys2}

	parts := pcf.IntoConnected()
	if len(parts) != 1 {
		t.Fatalf("expected 1 component, got %d", len(parts))
	}

	systems := parts[0].Root.Systems
	if len(systems) != 3 {
		t.Fatalf("expected 3 systems in the component, got %d", len(systems))
	}
	if systems[0].Name != "sys0" || systems[1].Name != "sys1" || systems[2].Name != "sys2" {
		t.Fatalf("expected ascending original-index order [sys0, sys1, sys2], got %+v", systems)
	}

	children := systems[0].Children
	if len(children) != 2 || children[0].Child != 2 || children[1].Child != 1 {
		t.Errorf("expected child indices to remain [2, 1] after a no-op remap, got %+v", children)
	}
}

// TestIntoConnectedEveryChildResolves is spec.md §8.7: every Child.child
// resolves within its returned component.
func TestIntoConnectedEveryChildResolves(t *testing.T) {
	pcf := buildTwoSystems()
	for _, part := range pcf.IntoConnected() {
		for _, sys := range part.Root.Systems {
			for _, c := range sys.Children {
				if c.Child < 0 || c.Child >= len(part.Root.Systems) {
					t.Errorf("dangling child reference %d in component of %d systems", c.Child, len(part.Root.Systems))
				}
			}
		}
	}
}
