package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(Fallback)

	assert.Equal("line 3 bad", From("line %d %v", 3, "bad"))
	assert.Equal("plain", From("plain"))
}
