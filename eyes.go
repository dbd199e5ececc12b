// Package eyes extracts values from strings that follow a simple literal template.
//
// A template is plain text with positional "{}" placeholders:
//
//	#{} @ {},{}: {}x{}
//
// Matching locates each literal of the template in the input, in order, and
// binds the text between them to the placeholders:
//
//	caps, err := eyes.Match("#1 @ 338,764: 20x24", "#{} @ {},{}: {}x{}")
//	// caps.Strings(): ["1", "338", "764", "20", "24"]
//
// There is no regular expression syntax: no alternation, repetition or
// character classes, and "{}" cannot be escaped.
//
// # Matching Rules
//
// Each literal binds to its first occurrence after the previous literal, then
// moves right to its last occurrence that still ends before the next literal's
// first occurrence (or the end of input for the last literal). This lets a
// placeholder absorb text containing its own delimiter:
//
//	eyes.Match("turn off 660,55 through 986,197", "{} {},{} through {},{}")
//	// ["turn off", "660", "55", "986", "197"]
//
// A literal made only of whitespace matches a whole run of whitespace:
//
//	eyes.Match("  775  785    361", " {} {} {}")
//	// ["775", "785", "361"]
//
// Text before a leading literal or after a trailing literal is never ignored:
// such input does not match. Empty captures are kept as "". Adjacent
// placeholders give the whole gap to the first and "" to the rest.
//
// The choice of split points is greedy and never revisited, so an input that
// only decomposes with a different split is reported as NoMatch.
//
// # Conversion
//
// Captures convert to typed values by pointer, by type name or into a struct:
//
//	var id, w, h uint
//	var x, y int
//	err := eyes.Scan(line, "#{} @ {},{}: {}x{}", &id, &x, &y, &w, &h)
//
//	vals, err := eyes.ParseAs("1 2,3", "{} {},{}", "u8", "u8", "u8")
//
//	nums, err := eyes.Values[int]("3 4 5", "{} {} {}")
//
// # Errors
//
// A failed match returns an error for which IsNoMatch reports true. A failed
// conversion returns an error wrapping *ConversionError. Must* variants panic
// instead of returning errors.
//
// # Configuration
//
// Customize an engine with functional options:
//
//	engine, _ := eyes.New(
//	    eyes.WithLogger(logger),
//	    eyes.WithMetrics(eyes.NewMetricsRecorder(logger)),
//	    eyes.WithPlaceholder("<>"),
//	)
package eyes
