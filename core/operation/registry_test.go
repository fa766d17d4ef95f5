package operation

import (
	"strings"
	"testing"

	"github.com/yursur/FEDOT/core/data"
)

type fakeOp struct{ name string }

func (f *fakeOp) Name() string                                  { return f.name }
func (f *fakeOp) Fit(d *data.InputData) (FittedState, error)    { return struct{}{}, nil }
func (f *fakeOp) Predict(d *data.InputData, st FittedState) (*data.InputData, error) {
	return d, nil
}

func TestRegistryRoundTrip(t *testing.T) {
	Register("fake_registry_op", func(params Params) (Operation, error) {
		return &fakeOp{name: params.String("name", "fake_registry_op")}, nil
	})

	op, err := New("fake_registry_op", Params{"name": "custom"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if op.Name() != "custom" {
		t.Errorf("Name() = %q, want %q", op.Name(), "custom")
	}

	found := false
	for _, name := range Known() {
		if name == "fake_registry_op" {
			found = true
		}
	}
	if !found {
		t.Error("Known() should list the registered operation")
	}
}

func TestNewUnknownOperation(t *testing.T) {
	_, err := New("no_such_operation", nil)
	if err == nil {
		t.Fatal("expected an error for an unknown operation")
	}
	if !strings.Contains(err.Error(), "unknown operation 'no_such_operation'") {
		t.Errorf("error %q should name the unknown operation", err)
	}
	if !strings.Contains(err.Error(), "Known operations:") {
		t.Errorf("error %q should list the known operations", err)
	}
}

func TestKnownIsSorted(t *testing.T) {
	Register("zz_sorted_probe", func(params Params) (Operation, error) {
		return &fakeOp{name: "zz_sorted_probe"}, nil
	})
	Register("aa_sorted_probe", func(params Params) (Operation, error) {
		return &fakeOp{name: "aa_sorted_probe"}, nil
	})

	names := Known()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Known() is not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestParamsCoercion(t *testing.T) {
	p := Params{
		"int":       3,
		"int_float": 4.0,
		"float":     0.5,
		"float_int": 2,
		"flag":      true,
		"text":      "abc",
		"slice":     []interface{}{1, 2.0, int64(3)},
		"seed":      7,
	}

	if got := p.Int("int", 0); got != 3 {
		t.Errorf("Int = %d, want 3", got)
	}
	if got := p.Int("int_float", 0); got != 4 {
		t.Errorf("Int from float = %d, want 4", got)
	}
	if got := p.Int("missing", 9); got != 9 {
		t.Errorf("Int default = %d, want 9", got)
	}
	if got := p.Float("float", 0); got != 0.5 {
		t.Errorf("Float = %v, want 0.5", got)
	}
	if got := p.Float("float_int", 0); got != 2 {
		t.Errorf("Float from int = %v, want 2", got)
	}
	if got := p.Bool("flag", false); !got {
		t.Error("Bool = false, want true")
	}
	if got := p.String("text", ""); got != "abc" {
		t.Errorf("String = %q, want abc", got)
	}
	slice := p.IntSlice("slice")
	if len(slice) != 3 || slice[0] != 1 || slice[1] != 2 || slice[2] != 3 {
		t.Errorf("IntSlice = %v, want [1 2 3]", slice)
	}
	if p.IntSlice("missing") != nil {
		t.Error("IntSlice for a missing key should be nil")
	}
	seed := p.SeedPtr("seed")
	if seed == nil || *seed != 7 {
		t.Errorf("SeedPtr = %v, want 7", seed)
	}
	if p.SeedPtr("missing") != nil {
		t.Error("SeedPtr for a missing key should be nil")
	}
}
