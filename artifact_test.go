package qfis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRuleCircuitArtifact(t *testing.T) {
	Convey("Given a compiled rule circuit", t, func() {
		system, err := DefaultSystem()
		So(err, ShouldBeNil)

		rc, err := system.Compile()
		So(err, ShouldBeNil)

		Convey("It survives a write and read", func() {
			var buf bytes.Buffer
			n, err := rc.WriteTo(&buf)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, int64(buf.Len()))

			read, err := ReadRuleCircuit(&buf)
			So(err, ShouldBeNil)
			So(read, ShouldResemble, rc)
		})

		Convey("It survives a save and load", func() {
			path := filepath.Join(t.TempDir(), "rules.qfc")
			So(SaveRuleCircuit(path, rc), ShouldBeNil)

			loaded, err := LoadRuleCircuit(path)
			So(err, ShouldBeNil)
			So(loaded.Table, ShouldResemble, rc.Table)
			So(loaded.Qubits(), ShouldEqual, 11)
		})

		Convey("A missing file is an error", func() {
			_, err := LoadRuleCircuit(filepath.Join(t.TempDir(), "missing.qfc"))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("Another version is refused", func() {
			data, err := msgpack.Marshal(&RuleCircuit{Version: 99})
			So(err, ShouldBeNil)

			_, err = ReadRuleCircuit(bytes.NewReader(data))
			So(err, ShouldWrap, ErrUnsupportedVersion)
		})

		Convey("Garbage bytes are refused", func() {
			_, err := ReadRuleCircuit(bytes.NewReader([]byte{0xc1}))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRuleCircuitCheck(t *testing.T) {
	Convey("Given a compiled rule circuit", t, func() {
		system, err := DefaultSystem()
		So(err, ShouldBeNil)

		rc, err := system.Compile()
		So(err, ShouldBeNil)

		Convey("It fits its own system", func() {
			inputWidths, outputWidth := system.Layout()
			So(rc.Check(inputWidths, outputWidth), ShouldBeNil)
		})

		Convey("It refuses other layouts", func() {
			So(rc.Check([]int{3}, 4), ShouldWrap, ErrStructuralMismatch)
			So(rc.Check([]int{3, 3}, 4), ShouldWrap, ErrStructuralMismatch)
			So(rc.Check([]int{3, 4}, 3), ShouldWrap, ErrStructuralMismatch)
		})

		Convey("It refuses a truncated table", func() {
			broken := *rc
			broken.Table = rc.Table[:64]
			So(broken.Check([]int{3, 4}, 4), ShouldWrap, ErrStructuralMismatch)
		})

		Convey("It refuses entries beyond the output register", func() {
			broken := *rc
			broken.Table = append([]uint64(nil), rc.Table...)
			broken.Table[5] = 16
			So(broken.Check([]int{3, 4}, 4), ShouldWrap, ErrStructuralMismatch)
		})

		Convey("It refuses another version", func() {
			broken := *rc
			broken.Version = 2
			So(broken.Check([]int{3, 4}, 4), ShouldWrap, ErrUnsupportedVersion)
		})
	})
}
