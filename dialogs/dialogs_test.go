package dialogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmUpdate_DeclinesOutsideBrowser(t *testing.T) {
	assert.False(t, ConfirmUpdate())
	assert.NotPanics(t, func() { Alert("offline ready") })
}
