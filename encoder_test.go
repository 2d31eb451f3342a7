package qfis

import (
	"math"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/floats"
)

func TestQubitCount(t *testing.T) {
	Convey("Registers get one qubit of headroom", t, func() {
		So(QubitCount(0), ShouldEqual, 0)
		So(QubitCount(1), ShouldEqual, 1)
		So(QubitCount(2), ShouldEqual, 2)
		So(QubitCount(4), ShouldEqual, 3)
		So(QubitCount(5), ShouldEqual, 4)
		So(QubitCount(8), ShouldEqual, 4)
	})
}

func TestAmplitudeEncoder(t *testing.T) {
	Convey("Given an amplitude encoder", t, func() {
		enc := AmplitudeEncoder{}

		Convey("When the degrees sum to more than 1", func() {
			probabilities, err := enc.Probabilities([]float64{0.8, 0.5}, 2)
			So(err, ShouldBeNil)

			Convey("Then they are renormalized", func() {
				So(len(probabilities), ShouldEqual, 4)
				So(probabilities[0], ShouldAlmostEqual, 0.8/1.3)
				So(probabilities[1], ShouldAlmostEqual, 0.5/1.3)
				So(probabilities[3], ShouldEqual, 0.0)
				So(floats.Sum(probabilities), ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When the degrees sum to less than 1", func() {
			probabilities, err := enc.Probabilities([]float64{0.2, 0.3}, 2)
			So(err, ShouldBeNil)

			Convey("Then the real entries are untouched", func() {
				So(probabilities[0], ShouldEqual, 0.2)
				So(probabilities[1], ShouldEqual, 0.3)
			})

			Convey("Then only the last slot absorbs the deficit", func() {
				So(probabilities[2], ShouldEqual, 0.0)
				So(probabilities[3], ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When the degrees sum to exactly 1", func() {
			amplitudes, err := enc.Encode([]float64{0, 1, 0, 0}, 3)
			So(err, ShouldBeNil)
			So(amplitudes, ShouldResemble, []float64{0, 1, 0, 0, 0, 0, 0, 0})
		})

		Convey("Amplitudes are square roots of the probabilities", func() {
			amplitudes, err := enc.Encode([]float64{0.25, 0.25}, 2)
			So(err, ShouldBeNil)
			So(amplitudes[0], ShouldAlmostEqual, 0.5)
			So(amplitudes[1], ShouldAlmostEqual, 0.5)
			So(amplitudes[3], ShouldAlmostEqual, math.Sqrt(0.5))
		})

		Convey("Values that do not fit the register are rejected", func() {
			_, err := enc.Encode([]float64{0.1, 0.1, 0.1, 0.1, 0.1}, 2)
			So(err, ShouldWrap, ErrStructuralMismatch)
		})

		Convey("A deficit without a free slot is rejected", func() {
			_, err := enc.Encode([]float64{0.2, 0.3}, 1)
			So(err, ShouldWrap, ErrStructuralMismatch)
		})

		Convey("Negative degrees are rejected", func() {
			_, err := enc.Encode([]float64{Unclassified, 0.5}, 2)
			So(err, ShouldWrap, ErrUnclassifiedDegree)
		})
	})
}

func TestAmplitudeEncoderLegacy(t *testing.T) {
	Convey("Given a legacy encoder and an Unclassified degree", t, func() {
		enc := AmplitudeEncoder{Legacy: true}

		probabilities, err := enc.Probabilities([]float64{Unclassified, 0.5}, 2)
		So(err, ShouldBeNil)

		Convey("The sentinel flows into the garbage slot arithmetic", func() {
			So(probabilities[0], ShouldEqual, -1.0)
			So(probabilities[3], ShouldAlmostEqual, 1.5)
		})

		Convey("The resulting amplitude is not a number", func() {
			amplitudes, err := enc.Encode([]float64{Unclassified, 0.5}, 2)
			So(err, ShouldBeNil)
			So(math.IsNaN(amplitudes[0]), ShouldBeTrue)
		})
	})
}

func TestAmplitudeEncoderSimplex(t *testing.T) {
	Convey("Given random degree distributions", t, func() {
		rng := rand.New(rand.NewPCG(1, 2))
		enc := AmplitudeEncoder{}

		for i := 0; i < 200; i++ {
			degrees := make([]float64, 5)
			for j := range degrees {
				degrees[j] = rng.Float64()
			}
			total := floats.Sum(degrees)

			probabilities, err := enc.Probabilities(degrees, QubitCount(len(degrees)))
			So(err, ShouldBeNil)
			So(floats.Sum(probabilities), ShouldAlmostEqual, 1.0, 1e-9)
			So(floats.Min(probabilities), ShouldBeGreaterThanOrEqualTo, 0)

			if total < 1.0 {
				So(probabilities[:len(degrees)], ShouldResemble, degrees)
				So(probabilities[len(probabilities)-1], ShouldAlmostEqual, 1.0-total)
				for _, padding := range probabilities[len(degrees) : len(probabilities)-1] {
					So(padding, ShouldEqual, 0.0)
				}
			}
		}
	})
}
