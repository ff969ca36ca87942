package dmx

import (
	"bytes"
	"testing"
)

func buildSampleDmx() *Dmx {
	symbols := NewSymbols()
	typeIdx, _ := symbols.Insert("DmElement")
	nameIdx, _ := symbols.Insert("name")
	countIdx, _ := symbols.Insert("count")

	root := NewElement(typeIdx, "root", Signature{1, 2, 3})
	root.Attributes.Set(nameIdx, NewStringAttr("hello"))
	root.Attributes.Set(countIdx, NewIntegerAttr(42))

	return &Dmx{
		Version:  VersionBinary2Dmx1,
		Strings:  symbols,
		Elements: []Element{root},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := buildSampleDmx()

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buf, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Version != original.Version {
		t.Fatalf("version mismatch: got %v want %v", decoded.Version, original.Version)
	}
	if decoded.Strings.Len() != original.Strings.Len() {
		t.Fatalf("symbol count mismatch: got %d want %d", decoded.Strings.Len(), original.Strings.Len())
	}
	if len(decoded.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(decoded.Elements))
	}

	el := decoded.Elements[0]
	if el.Name != "root" {
		t.Errorf("element name: got %q want %q", el.Name, "root")
	}
	if el.Attributes.Len() != 2 {
		t.Errorf("attribute count: got %d want 2", el.Attributes.Len())
	}
}

func TestEncodedSizeMatchesEncode(t *testing.T) {
	d := buildSampleDmx()

	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if got, want := d.EncodedSize(), buf.Len(); got != want {
		t.Errorf("EncodedSize() = %d, actual encoded length = %d", got, want)
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	d := buildSampleDmx()
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-4])
	if _, err := Decode(truncated, nil); err == nil {
		t.Fatal("expected an error decoding a truncated stream, got nil")
	}
}
