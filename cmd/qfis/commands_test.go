package main

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/theapemachine/qfis"
)

// resetFlags puts every flag back to its default so commands can run again.
func resetFlags(cmds ...*cobra.Command) {
	reset := func(flag *pflag.Flag) {
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	}

	for _, cmd := range cmds {
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	}
}

func execute(stdin string, args ...string) (string, error) {
	resetFlags(rootCmd, compileCmd, batchCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	Convey("Given the qfis command", t, func() {
		Convey("Printing a circuit needs exactly two inputs", func() {
			_, err := execute("", "-g", "3")
			So(err, ShouldWrap, qfis.ErrArityMismatch)

			_, err = execute("", "-g", "3,40,1")
			So(err, ShouldWrap, qfis.ErrArityMismatch)
		})

		Convey("Running a circuit needs exactly two inputs", func() {
			_, err := execute("", "-r", "3")
			So(err, ShouldWrap, qfis.ErrArityMismatch)
		})

		Convey("The two modes cannot be combined", func() {
			_, err := execute("", "-g", "3,40", "-r", "3,40")
			So(err, ShouldNotBeNil)
		})

		Convey("The circuit is printed", func() {
			out, err := execute("", "-g", "3,40")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "circuit: 11 qubits, 4 clbits")
			So(out, ShouldContainSubstring, "measure Event[0] -> meas[3]")
		})

		Convey("The crisp output is printed", func() {
			out, err := execute("", "-r", "3,40", "--seed", "5", "--shots", "4096")
			So(err, ShouldBeNil)

			value, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
			So(err, ShouldBeNil)
			So(value, ShouldAlmostEqual, 0.3769, 0.02)
		})

		Convey("Without a mode the help is shown", func() {
			out, err := execute("")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Usage:")
		})
	})
}

func TestCompileCommand(t *testing.T) {
	Convey("Given a compiled artifact", t, func() {
		path := filepath.Join(t.TempDir(), "rules.qfc")

		out, err := execute("", "compile", "-o", path)
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "3 registers, 128 entries")

		Convey("It loads back for the system", func() {
			rules, err := qfis.LoadRuleCircuit(path)
			So(err, ShouldBeNil)
			So(rules.Check([]int{3, 4}, 4), ShouldBeNil)
		})

		Convey("The root command can run from it", func() {
			out, err := execute("", "-r", "3,40", "--circuit", path, "--seed", "9")
			So(err, ShouldBeNil)
			So(strings.TrimSpace(out), ShouldNotBeBlank)
		})
	})
}

func TestBatchCommand(t *testing.T) {
	Convey("Given CSV rows on stdin", t, func() {
		out, err := execute("# reduction,duration\n3,40\n50\n10, 200\n", "batch", "--seed", "1", "--workers", "2")
		So(err, ShouldBeNil)

		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		So(err, ShouldBeNil)

		Convey("Then every row gets a result row", func() {
			So(records, ShouldHaveLength, 4)
			So(records[0], ShouldResemble, []string{"row", "id", "value", "good_shots", "error"})
			So(records[1][0], ShouldEqual, "1")
			So(records[1][4], ShouldBeBlank)
			So(records[2][4], ShouldContainSubstring, qfis.ErrArityMismatch.Error())
			So(records[3][4], ShouldBeBlank)
		})
	})

	Convey("Given a row that is not numeric", t, func() {
		_, err := execute("3,abc\n", "batch")
		So(err, ShouldNotBeNil)
	})
}
