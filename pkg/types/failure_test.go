// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure(t *testing.T) {
	err := Failf(KindIO, "load topic", "reading papers_info.json: %w", fs.ErrNotExist)
	wrapped := fmt.Errorf("listing: %w", err)

	assert.Equal(t, "load topic: reading papers_info.json: file does not exist", err.Error())
	assert.True(t, IsKind(wrapped, KindIO))
	assert.False(t, IsKind(wrapped, KindCorruption))
	assert.Equal(t, KindIO, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Equal(t, "reading papers_info.json: file does not exist", Cause(wrapped).Error())

	plain := errors.New("plain")
	assert.Equal(t, FailureKind(""), KindOf(plain))
	assert.Same(t, plain, Cause(plain))
	assert.Equal(t, "plain", (&Failure{Kind: KindUpstream, Err: plain}).Error())
}
