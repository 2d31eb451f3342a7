package qfis

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/errnie"
)

// Counts maps a measured bit-string to the number of shots that produced it.
type Counts map[string]int

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the measured bit-strings in lexical order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

/*
OutputKey returns the bit-string a measurement produces for the output tag at
index, for an output variable with tagCount tags.

The key is a single '0' for the headroom qubit followed by the zero-padded
binary index with its bits reversed. Its width equals QubitCount(tagCount).
A single-tag output therefore has the one-character key "0"; padding its
index to two bits would give "00", which a one qubit register never measures.
*/
func OutputKey(index, tagCount int) string {
	width := QubitCount(tagCount) - 1
	if width < 0 {
		width = 0
	}

	bits := strconv.FormatUint(uint64(index), 2)
	if len(bits) < width {
		bits = strings.Repeat("0", width-len(bits)) + bits
	}

	if width == 0 {
		bits = ""
	}

	reversed := []byte(bits)
	slices.Reverse(reversed)

	return "0" + string(reversed)
}

// TagCount is the number of shots attributed to one output tag.
type TagCount struct {
	Tag   *LinguisticTag
	Key   string
	Count int
}

// Decoded is the aggregated measurement and its defuzzified value.
type Decoded struct {
	Tags       []TagCount
	GoodShots  int
	TotalShots int
	Value      float64
}

/*
ResultDecoder maps measurement counts back onto the tags of an output
variable and defuzzifies them into a crisp value.
*/
type ResultDecoder struct {
	output *FuzzyOutput
}

func NewResultDecoder(output *FuzzyOutput) *ResultDecoder {
	return &ResultDecoder{output: output}
}

/*
Decode attributes counts to output tags by their expected key and computes the
counts-weighted average of the tag payloads. Outcomes that match no tag, such
as the garbage state, are discarded. When no shot matched, Value is 0.

Keys of the wrong width cannot have come from this output register; they are
skipped and reported as ErrStructuralMismatch next to the partial result.
*/
func (dec *ResultDecoder) Decode(counts Counts) (Decoded, error) {
	tags := dec.output.tags
	width := QubitCount(len(tags))

	decoded := Decoded{
		Tags:       make([]TagCount, 0, len(tags)),
		TotalShots: counts.Total(),
	}

	var malformed []string
	for _, key := range counts.Keys() {
		if len(key) != width {
			malformed = append(malformed, key)
		}
	}

	for idx, tag := range tags {
		key := OutputKey(idx, len(tags))
		count, ok := counts[key]
		if !ok {
			continue
		}
		decoded.Tags = append(decoded.Tags, TagCount{Tag: tag, Key: key, Count: count})
		decoded.GoodShots += count
	}

	if decoded.GoodShots > 0 {
		var num float64
		for _, tc := range decoded.Tags {
			num += tc.Tag.Evaluate(float64(tc.Count))
		}
		decoded.Value = num / float64(decoded.GoodShots)
	}

	errnie.Debug(
		"decoded %d/%d good shots into %v\n%s",
		decoded.GoodShots, decoded.TotalShots, decoded.Value, spew.Sdump(counts),
	)

	if len(malformed) > 0 {
		err := fmt.Errorf(
			"%w: %d bit-strings %v do not match a %d qubit output register",
			ErrStructuralMismatch, len(malformed), malformed, width,
		)
		errnie.Error(err)
		return decoded, err
	}

	return decoded, nil
}
