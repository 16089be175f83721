package errors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "rom-manager/core/errors"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	err := apperrors.NewFormatError("MAME.dat", "unmatched parenthesis", nil)
	assert.Equal(t, "invalid dat MAME.dat: unmatched parenthesis", err.Error())
	assert.True(t, apperrors.IsFormat(err))
	assert.False(t, apperrors.IsNotFound(err))

	wrapped := fmt.Errorf("load core mame2010: %w", err)
	assert.True(t, apperrors.IsFormat(wrapped))
}

func TestArchiveUnreadableError(t *testing.T) {
	base := errors.New("zip: not a valid zip file")
	err := apperrors.NewArchiveUnreadableError("/roms/broken.zip", base)
	assert.Contains(t, err.Error(), "/roms/broken.zip")
	assert.True(t, apperrors.IsArchiveUnreadable(err))
	assert.ErrorIs(t, err, base)
}

func TestRepairSourceUnavailableError(t *testing.T) {
	err := &apperrors.RepairSourceUnavailableError{
		Bundle: "pacman",
		Rom:    "pacman.6e",
		CRC:    "c1e6ab10",
		Source: "puckman.zip",
	}
	assert.Equal(t, "cannot repair pacman: rom pacman.6e (c1e6ab10) from puckman.zip", err.Error())
	assert.True(t, apperrors.IsRepairSourceUnavailable(err))
}

func TestNetworkError(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		err := &apperrors.NetworkError{URL: "http://example/x.zip", StatusCode: 500}
		assert.Equal(t, "request http://example/x.zip returned 500", err.Error())
		assert.True(t, apperrors.IsNetwork(err))
	})

	t.Run("transport", func(t *testing.T) {
		base := errors.New("connection refused")
		err := &apperrors.NetworkError{URL: "http://example/x.zip", Err: base}
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, base)
	})
}

func TestNotFoundError(t *testing.T) {
	err := apperrors.NewNotFoundError("core", "mame2003_libretro")
	assert.Equal(t, "core mame2003_libretro not found", err.Error())
	assert.True(t, apperrors.IsNotFound(errors.Join(errors.New("failed"), err)))
}
