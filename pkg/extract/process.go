// Package extract recovers multiple-choice questions from noisy OCR text.
//
// Two independent paths run over the same text: a DirectExtractor that
// pattern-matches question blocks in the raw text, and a reflow Normalize
// pass followed by a Chain of strategies (StructuredParser, then
// InlineParser when nothing was found).
package extract

import (
	"golang.org/x/text/unicode/norm"

	"github.com/coolbeans/examocr/pkg/quiz"
)

// Options configures Process.
type Options struct {
	// Marker is the trailing answer marker, DefaultMarker when empty.
	Marker string

	// NormalizeUnicode converts the text to NFC before parsing. The Raw
	// artifact is always returned as given.
	NormalizeUnicode bool

	// Preprocess selects cleanup passes run before reflow.
	Preprocess PreprocessOptions
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Marker: DefaultMarker, NormalizeUnicode: true}
}

// Result carries every artifact of one document's parsing run.
type Result struct {
	// Raw is the OCR text as received.
	Raw string

	// Direct is the output of the DirectExtractor over the raw text.
	Direct         []quiz.Question
	DirectWarnings []quiz.Warning

	// Normalized is the reflowed text, one statement per line.
	Normalized string

	// Parsed is the output of the strategy chain over Normalized.
	Parsed         []quiz.Question
	ParsedWarnings []quiz.Warning

	// Strategy names the strategy that produced Parsed, or NoStrategy.
	Strategy string
}

// Process runs both parsing paths over raw OCR text: the direct extractor,
// and reflow followed by the structured parser with its inline fallback.
// The two paths are independent and their outputs are never merged.
func Process(raw string, opts Options) *Result {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}

	text := raw
	if opts.NormalizeUnicode {
		text = norm.NFC.String(text)
	}

	direct := DirectExtractor{Marker: opts.Marker}.Extract(text)

	lines := SplitLines(text)
	if opts.Preprocess.Enabled() {
		lines = Preprocess(lines, opts.Preprocess)
	}
	normalized := JoinLines(Normalize(lines))

	parsed, strategy := DefaultChain(opts.Marker).Parse(normalized)

	return &Result{
		Raw:            raw,
		Direct:         direct.Questions,
		DirectWarnings: direct.Warnings,
		Normalized:     normalized,
		Parsed:         parsed.Questions,
		ParsedWarnings: parsed.Warnings,
		Strategy:       strategy,
	}
}
