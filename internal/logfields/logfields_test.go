package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{BuildID("b1"), KeyBuildID, "b1"},
		{Page("Home"), KeyPage, "Home"},
		{Fragment("blocks/header.html"), KeyFragment, "blocks/header.html"},
		{Token("TITLE"), KeyToken, "TITLE"},
		{Tag("aboutme"), KeyTag, "aboutme"},
		{Classification("journal"), KeyClassification, "journal"},
		{Output("/tmp/index.html"), KeyOutput, "/tmp/index.html"},
	}
	for _, c := range cases {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.val, c.attr.Value.String())
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.InDelta(t, 1.5, DurationMS(1.5).Value.Float64(), 0.0001)
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
