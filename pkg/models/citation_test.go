package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCitation_IsShortForm(t *testing.T) {
	cases := []struct {
		typ      CitationType
		shortForm bool
	}{
		{TypeCase, false},
		{TypeStatute, false},
		{TypeID, true},
		{TypeSupra, true},
		{TypeShortFormCase, true},
	}

	for _, tc := range cases {
		c := &Citation{Type: tc.typ}
		assert.Equal(t, tc.shortForm, c.IsShortForm(), "type %s", tc.typ)
		assert.Equal(t, !tc.shortForm, c.IsFull(), "type %s", tc.typ)
	}
}
