package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/rendercmd/pkg/rendercmd"
)

// failingRenderer fails every draw.
type failingRenderer struct {
	Recorder
}

var errDraw = errors.New("no such mesh")

func (f *failingRenderer) Draw(meshID, materialID uint8) error {
	return errDraw
}

func sampleStream() []byte {
	b := rendercmd.NewBuilder()
	b.MulObject(3, 0)
	b.MulObjectStoreRestore(5, 3, 7, 0)
	b.Blend(2, rendercmd.RawTerm{StackID: 0, BlendID: 1, Weight: 128}, rendercmd.RawTerm{StackID: 7, BlendID: 2, Weight: 128})
	b.SetMaterial(4)
	b.Draw(9)
	b.End()
	return b.Bytes()
}

func TestRecorderCalls(t *testing.T) {
	tr, err := Run(rendercmd.NewCursor(sampleStream()), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{
		"mul_by_object(3)",
		"store_matrix(0)",
		"load_matrix(0)",
		"mul_by_object(5)",
		"store_matrix(7)",
		"blend(2, [(0,1,0.5) (7,2,0.5)])",
		"draw(9, 4)",
	}
	if len(tr.Calls) != len(want) {
		t.Fatalf("recorded %d calls, want %d:\n%s", len(tr.Calls), len(want), tr)
	}
	for i, w := range want {
		if got := tr.Calls[i].String(); got != w {
			t.Errorf("call %d = %q, want %q", i, got, w)
		}
	}
	if tr.Count(OpMulByObject) != 2 || tr.Count(OpDraw) != 1 {
		t.Errorf("Count mismatch: %d mul, %d draw", tr.Count(OpMulByObject), tr.Count(OpDraw))
	}
}

func TestRecorderForwards(t *testing.T) {
	inner := NewRecorder(nil)
	outer := NewRecorder(inner)

	if err := rendercmd.RunCommands(rendercmd.NewCursor(sampleStream()), outer); err != nil {
		t.Fatalf("RunCommands failed: %v", err)
	}
	if len(inner.Calls()) != len(outer.Calls()) {
		t.Errorf("forwarded %d of %d calls", len(inner.Calls()), len(outer.Calls()))
	}
}

func TestRecorderRecordsForwardError(t *testing.T) {
	tr, err := Run(rendercmd.NewCursor(sampleStream()), &failingRenderer{})
	if !errors.Is(err, errDraw) {
		t.Fatalf("err = %v, want errDraw", err)
	}

	last := tr.Calls[len(tr.Calls)-1]
	if last.Op != OpDraw || last.Err != errDraw.Error() {
		t.Errorf("last call = %+v", last)
	}
	if tr.Err == "" || !strings.Contains(tr.String(), "error: ") {
		t.Errorf("trace error not recorded:\n%s", tr)
	}
	if !strings.Contains(last.String(), "! no such mesh") {
		t.Errorf("call string = %q", last.String())
	}
}

func TestTraceCBORRoundTrip(t *testing.T) {
	tr, err := Run(rendercmd.NewCursor(sampleStream()), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	tr.Err = "stopped"

	data, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.String() != tr.String() {
		t.Errorf("round trip mismatch:\n%s\nwant\n%s", got, tr)
	}
	if got.Calls[5].Terms[1].Weight != 0.5 {
		t.Errorf("blend weight = %v, want 0.5", got.Calls[5].Terms[1].Weight)
	}
}

func TestTraceCBORDeterministic(t *testing.T) {
	a, _ := Run(rendercmd.NewCursor(sampleStream()), nil)
	b, _ := Run(rendercmd.NewCursor(sampleStream()), nil)

	da, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Error("equal traces encoded differently")
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xFF, 0x00}); err == nil {
		t.Error("Unmarshal should reject garbage")
	}
}
