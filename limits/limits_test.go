package limits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageSizeRejectsEmpty(t *testing.T) {
	assert.ErrorIs(t, ValidateMessageSize(nil, 10), ErrMessageEmpty)
}

func TestValidateMessageSizeRejectsOversize(t *testing.T) {
	assert.ErrorIs(t, ValidateMessageSize(make([]byte, 11), 10), ErrMessageTooLarge)
}

func TestValidateMessageSizeAcceptsWithinBound(t *testing.T) {
	assert.NoError(t, ValidateMessageSize(make([]byte, 10), 10))
}

func TestValidateOutboxMessageUsesMaxMessageSize(t *testing.T) {
	assert.NoError(t, ValidateOutboxMessage(make([]byte, MaxMessageSize)))
	assert.ErrorIs(t, ValidateOutboxMessage(make([]byte, MaxMessageSize+1)), ErrMessageTooLarge)
}

func TestValidateProcessingBufferAllowsEmpty(t *testing.T) {
	assert.NoError(t, ValidateProcessingBuffer(nil))
}

func TestValidateProcessingBufferRejectsOversize(t *testing.T) {
	assert.ErrorIs(t, ValidateProcessingBuffer(make([]byte, MaxProcessingBuffer+1)), ErrMessageTooLarge)
}
