package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyResponse(t *testing.T) {
	kinds := []Kind{KindText, KindInteger, KindFloat, KindChoice, KindConfirmation}
	for _, kind := range kinds {
		value, err := Validate("", kind)
		assert.Nil(t, value, "kind %s", kind)
		require.Error(t, err, "kind %s", kind)
		assert.EqualError(t, err, "Empty response provided")
	}
}

func TestValidateText(t *testing.T) {
	value, err := Validate("Hello World", KindText)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", value)

	// Whitespace-only is still non-empty text.
	value, err = Validate("  ", KindText)
	require.NoError(t, err)
	assert.Equal(t, "  ", value)
}

func TestValidateInteger(t *testing.T) {
	value, err := Validate("42", KindInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)

	value, err = Validate("-7", KindInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), value)

	for _, raw := range []string{"abc", "3.14", "not_a_number", "1 2"} {
		value, err = Validate(raw, KindInteger)
		assert.Nil(t, value)
		require.Error(t, err, "raw %q", raw)
		assert.EqualError(t, err, "Invalid integer format")
	}
}

func TestValidateFloat(t *testing.T) {
	value, err := Validate("3.14", KindFloat)
	require.NoError(t, err)
	assert.Equal(t, 3.14, value)

	// Integers are valid float literals.
	value, err = Validate("10", KindFloat)
	require.NoError(t, err)
	assert.Equal(t, 10.0, value)

	value, err = Validate("-2.5e3", KindFloat)
	require.NoError(t, err)
	assert.Equal(t, -2500.0, value)

	value, err = Validate("not_a_float", KindFloat)
	assert.Nil(t, value)
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid float format")
}

func TestValidateChoiceSingle(t *testing.T) {
	// A lone numeric token converts to an integer, not a one-element list.
	value, err := Validate("2", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), value)

	value, err = Validate("Option A", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, "Option A", value)
}

func TestValidateChoiceMultiple(t *testing.T) {
	value, err := Validate("1, 3, 5", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(3), int64(5)}, value)

	// Mixed numeric and text tokens keep their input order.
	value, err = Validate("1, Option B, 3", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "Option B", int64(3)}, value)

	// Duplicates are preserved.
	value, err = Validate("a, a", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "a"}, value)
}

func TestValidateChoiceTrimsTokens(t *testing.T) {
	value, err := Validate("  left ,right  ", KindChoice)
	require.NoError(t, err)
	assert.Equal(t, []any{"left", "right"}, value)
}

func TestValidateConfirmation(t *testing.T) {
	for _, raw := range []string{"yes", "y", "true", "confirm", "ok", "1", "YES", "Confirm"} {
		value, err := Validate(raw, KindConfirmation)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, true, value)
	}

	for _, raw := range []string{"no", "n", "false", "cancel", "deny", "0", "NO", "Deny"} {
		value, err := Validate(raw, KindConfirmation)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, false, value)
	}

	value, err := Validate("maybe", KindConfirmation)
	assert.Nil(t, value)
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid confirmation response")
}

func TestValidateMultilineAndInfoAsText(t *testing.T) {
	value, err := Validate("line one\nline two", KindMultiline)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", value)

	value, err = Validate("ack", KindInfo)
	require.NoError(t, err)
	assert.Equal(t, "ack", value)
}

func TestValidateIdempotent(t *testing.T) {
	inputs := []struct {
		raw  string
		kind Kind
	}{
		{"42", KindInteger},
		{"1, Option B, 3", KindChoice},
		{"maybe", KindConfirmation},
		{"", KindText},
	}
	for _, in := range inputs {
		v1, err1 := Validate(in.raw, in.kind)
		v2, err2 := Validate(in.raw, in.kind)
		assert.Equal(t, v1, v2)
		assert.Equal(t, err1, err2)
	}
}

func TestKindResponseKind(t *testing.T) {
	assert.Equal(t, KindText, KindMultiline.ResponseKind())
	assert.Equal(t, KindText, KindInfo.ResponseKind())
	assert.Equal(t, KindInteger, KindInteger.ResponseKind())
}
