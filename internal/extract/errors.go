package extract

import "errors"

// Extraction failures are typed so the dispatch boundary can map each kind
// to one fixed user-facing message. Check with errors.Is.
var (
	// ErrOracleUnavailable means the oracle call failed, timed out, or
	// returned nothing at all.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrMalformedResponse means the oracle responded but no parseable
	// JSON object could be located in the response.
	ErrMalformedResponse = errors.New("malformed oracle response")

	// ErrIncompleteExtraction means the JSON parsed but a required slot
	// was missing or empty.
	ErrIncompleteExtraction = errors.New("incomplete extraction")

	// ErrUnparsableDateTime means a slot was present but did not honor
	// the date/time format the prompt dictates.
	ErrUnparsableDateTime = errors.New("unparsable date or time")
)
