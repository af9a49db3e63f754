package volume

import (
	"strconv"
	"strings"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/checksum"
	"github.com/justapithecus/glyphcast/metrics"
	"github.com/justapithecus/glyphcast/types"
)

// Extractor scans free-form text for volume fragments.
//
// Every fault below the transmission level is recovered locally: a
// malformed header, an unknown media tag, or a checksum mismatch drops
// that one candidate and the scan continues. Extraction never fails as
// a whole — robustness against partially pasted, reordered, or
// polluted text is the design goal.
type Extractor struct {
	alpha     *alphabet.Alphabet
	collector *metrics.Collector
}

// NewExtractor creates an extractor over the given alphabet.
// The collector may be nil.
func NewExtractor(alpha *alphabet.Alphabet, collector *metrics.Collector) *Extractor {
	return &Extractor{alpha: alpha, collector: collector}
}

// Extract returns every validated volume found in text, in appearance
// order. Text before the first prefix occurrence is never a candidate;
// everything after each occurrence is parsed as one segment.
//
// Volumes from multiple interleaved transmissions come back mixed; the
// session layer separates them by media/total when inserting.
func (e *Extractor) Extract(text string) []types.Volume {
	segments := strings.Split(text, types.WirePrefix)
	if len(segments) < 2 {
		return nil
	}

	var out []types.Volume
	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}
		e.collector.SegmentScanned()

		v, ok := e.parseSegment(segment)
		if !ok {
			continue
		}
		out = append(out, v)
	}
	return out
}

// parseSegment validates one candidate segment (the text after a
// prefix occurrence). The remainder beyond the fourth delimiter is the
// payload; it cannot itself contain the delimiter by alphabet
// construction, but SplitN keeps any polluted tail attached so the
// checksum can judge it.
func (e *Extractor) parseSegment(segment string) (types.Volume, bool) {
	parts := strings.SplitN(segment, types.FieldDelimiter, 5)
	if len(parts) < 5 {
		e.collector.MalformedSegment()
		return types.Volume{}, false
	}

	media, ok := types.ParseMediaType(parts[0])
	if !ok {
		e.collector.UnknownMedia()
		return types.Volume{}, false
	}

	total, err := strconv.Atoi(parts[1])
	if err != nil {
		e.collector.MalformedSegment()
		return types.Volume{}, false
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		e.collector.MalformedSegment()
		return types.Volume{}, false
	}
	if total <= 0 || index < 0 || index >= total {
		e.collector.IndexRejected()
		return types.Volume{}, false
	}

	// Paste reflow inserts whitespace and markup. Strip anything the
	// alphabet does not recognize, then let the checksum judge what
	// remains.
	payload := e.clean(parts[4])
	declared := parts[3]
	if checksum.Sum(payload) != declared {
		e.collector.ChecksumRejected()
		return types.Volume{}, false
	}

	e.collector.VolumeExtracted()
	return types.Volume{
		Media:    media,
		Total:    total,
		Index:    index,
		Checksum: declared,
		Payload:  payload,
	}, true
}

// clean strips every rune outside the alphabet.
func (e *Extractor) clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if e.alpha.Contains(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
