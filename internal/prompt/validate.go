package prompt

import (
	"strconv"
	"strings"
)

// Validation failure reasons. These are the only errors Validate produces.
const (
	reasonEmpty               = "Empty response provided"
	reasonInvalidInteger      = "Invalid integer format"
	reasonInvalidFloat        = "Invalid float format"
	reasonInvalidConfirmation = "Invalid confirmation response"
)

// ValidationError reports why a response was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// affirmative and negative are the accepted confirmation answers, matched
// case-insensitively.
var (
	affirmative = map[string]struct{}{
		"yes": {}, "y": {}, "true": {}, "confirm": {}, "ok": {}, "1": {},
	}
	negative = map[string]struct{}{
		"no": {}, "n": {}, "false": {}, "cancel": {}, "deny": {}, "0": {},
	}
)

// Validate checks raw response text against the expected kind and produces
// a typed value:
//
//	text         -> string, unchanged
//	integer      -> int64
//	float        -> float64
//	choice       -> int64 or string for a single token; []any for several
//	confirmation -> bool
//
// Choice responses are split on commas with whitespace trimmed around each
// token; tokens that parse as integers are converted, order is preserved and
// duplicates are kept. An empty raw string is rejected for every kind.
// Validate is pure and never panics; all failures are reported as a
// *ValidationError.
func Validate(raw string, kind Kind) (any, error) {
	if raw == "" {
		return nil, &ValidationError{Reason: reasonEmpty}
	}

	switch kind.ResponseKind() {
	case KindText:
		return raw, nil

	case KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &ValidationError{Reason: reasonInvalidInteger}
		}
		return n, nil

	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ValidationError{Reason: reasonInvalidFloat}
		}
		return f, nil

	case KindChoice:
		tokens := strings.Split(raw, ",")
		values := make([]any, 0, len(tokens))
		for _, tok := range tokens {
			values = append(values, convertChoiceToken(strings.TrimSpace(tok)))
		}
		if len(values) == 1 {
			return values[0], nil
		}
		return values, nil

	case KindConfirmation:
		answer := strings.ToLower(raw)
		if _, ok := affirmative[answer]; ok {
			return true, nil
		}
		if _, ok := negative[answer]; ok {
			return false, nil
		}
		return nil, &ValidationError{Reason: reasonInvalidConfirmation}

	default:
		// Unknown kinds validate as text so callers always get the raw
		// response back.
		return raw, nil
	}
}

// convertChoiceToken converts a trimmed choice token to an integer when it
// parses as one, otherwise keeps it as a string.
func convertChoiceToken(tok string) any {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n
	}
	return tok
}
