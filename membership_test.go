package qfis

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrapezoidalEvaluate(t *testing.T) {
	Convey("Given a trapezoid over [0, 10]", t, func() {
		mf := NewTrapezoidal(0, 2, 4, 6, 8, 10)

		Convey("The flat top evaluates to 1", func() {
			So(mf.Evaluate(4), ShouldEqual, 1.0)
			So(mf.Evaluate(5), ShouldEqual, 1.0)
			So(mf.Evaluate(6), ShouldEqual, 1.0)
		})

		Convey("The domain ends evaluate to 0", func() {
			So(mf.Evaluate(0), ShouldEqual, 0.0)
			So(mf.Evaluate(2), ShouldEqual, 0.0)
			So(mf.Evaluate(8), ShouldEqual, 0.0)
			So(mf.Evaluate(10), ShouldEqual, 0.0)
		})

		Convey("The slopes are linear", func() {
			So(mf.Evaluate(3), ShouldAlmostEqual, 0.5)
			So(mf.Evaluate(7), ShouldAlmostEqual, 0.5)
			So(mf.Evaluate(2.5), ShouldAlmostEqual, 0.25)
		})

		Convey("Values outside the domain are clamped", func() {
			for _, v := range []float64{-100, -1, -0.001} {
				So(mf.Evaluate(v), ShouldEqual, mf.Evaluate(0))
			}
			for _, v := range []float64{10.001, 11, 1e9} {
				So(mf.Evaluate(v), ShouldEqual, mf.Evaluate(10))
			}
		})
	})
}

func TestDerivedShapes(t *testing.T) {
	Convey("Given the derived shapes", t, func() {
		Convey("A triangle is a trapezoid with a single top", func() {
			tri := NewTriangular(0, 2, 5, 8, 10)
			trap := NewTrapezoidal(0, 2, 5, 5, 8, 10)

			So(tri.Shape(), ShouldEqual, Triangular)
			for _, v := range []float64{0, 1, 3, 5, 6.5, 9, 10} {
				So(tri.Evaluate(v), ShouldEqual, trap.Evaluate(v))
			}
			So(tri.Evaluate(5), ShouldEqual, 1.0)
		})

		Convey("A linear Z is 1 on the left tail", func() {
			z := NewLinearZ(0, 1, 2, 100)
			trap := NewTrapezoidal(-1, -1, -1, 1, 2, 100)

			So(z.Shape(), ShouldEqual, LinearZ)
			for _, v := range []float64{-5, 0, 0.5, 1, 1.5, 2, 50} {
				So(z.Evaluate(v), ShouldEqual, trap.Evaluate(v))
			}
			So(z.Evaluate(0), ShouldEqual, 1.0)
			So(z.Evaluate(1.5), ShouldAlmostEqual, 0.5)
			So(z.Evaluate(3), ShouldEqual, 0.0)
		})

		Convey("A linear S is 1 on the right tail", func() {
			s := NewLinearS(0, 9, 12, 100)
			trap := NewTrapezoidal(0, 9, 12, 101, 101, 101)

			So(s.Shape(), ShouldEqual, LinearS)
			for _, v := range []float64{0, 5, 9, 10.5, 12, 60, 100} {
				So(s.Evaluate(v), ShouldEqual, trap.Evaluate(v))
			}
			So(s.Evaluate(100), ShouldEqual, 1.0)
			So(s.Evaluate(10.5), ShouldAlmostEqual, 0.5)
			So(s.Evaluate(3), ShouldEqual, 0.0)
		})

		Convey("A constant scales its input", func() {
			c := NewConst(0.5)
			So(c.Evaluate(4096), ShouldEqual, 2048.0)
			So(c.Evaluate(0), ShouldEqual, 0.0)
			So(c.Scale(), ShouldEqual, 0.5)
		})
	})
}

func TestUnclassifiedDegree(t *testing.T) {
	Convey("Given values that fall in no region", t, func() {
		Convey("NaN keeps the sentinel", func() {
			mf := NewTrapezoidal(0, 2, 4, 6, 8, 10)
			So(mf.Evaluate(math.NaN()), ShouldEqual, Unclassified)

			_, err := mf.Degree(math.NaN())
			So(err, ShouldWrap, ErrUnclassifiedDegree)
		})

		Convey("Inverted domain bounds keep the sentinel", func() {
			mf := NewTrapezoidal(10, 1, 2, 3, 4, 0)
			So(mf.Evaluate(5), ShouldEqual, Unclassified)
		})

		Convey("Well-formed values have no error", func() {
			degree, err := NewTrapezoidal(0, 2, 4, 6, 8, 10).Degree(3)
			So(err, ShouldBeNil)
			So(degree, ShouldAlmostEqual, 0.5)
		})
	})
}

func TestNewMembershipFunction(t *testing.T) {
	Convey("Given the declarative factory", t, func() {
		domain := Domain{Min: 0, Max: 100}

		Convey("Shapes parse from their identifiers", func() {
			for _, name := range []string{"trapmf", "trimf", "linzmf", "linsmf", "const"} {
				shape, err := ParseShape(name)
				So(err, ShouldBeNil)
				So(shape.String(), ShouldEqual, name)
			}

			_, err := ParseShape("gaussmf")
			So(err, ShouldWrap, ErrUnknownShape)

			_, err = ParseShape("TRAPMF")
			So(err, ShouldWrap, ErrUnknownShape)
		})

		Convey("Params are placed inside the domain", func() {
			mf, err := NewMembershipFunction(Trapezoidal, domain, []float64{1.8, 2, 4, 5})
			So(err, ShouldBeNil)
			So(mf.Breakpoints(), ShouldResemble, [6]float64{0, 1.8, 2, 4, 5, 100})

			mf, err = NewMembershipFunction(LinearZ, domain, []float64{1, 2})
			So(err, ShouldBeNil)
			So(mf.Breakpoints(), ShouldResemble, [6]float64{-1, -1, -1, 1, 2, 100})
		})

		Convey("Wrong parameter counts are rejected", func() {
			_, err := NewMembershipFunction(Triangular, domain, []float64{1, 2})
			So(err, ShouldWrap, ErrParameterCount)
		})

		Convey("Unknown shapes are rejected", func() {
			_, err := NewMembershipFunction(Shape(42), domain, []float64{1})
			So(err, ShouldWrap, ErrUnknownShape)
		})
	})
}
