package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCapsuleMessage(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	msg := BuildCapsuleMessage("user@example.com", "2026-06-01", pdf)

	assert.Equal(t, "user@example.com", msg.To)
	assert.Contains(t, msg.Subject, "타임캡슐")
	assert.Contains(t, msg.HTMLBody, "2026-06-01")
	assert.Len(t, msg.Attachments, 1)
	assert.Equal(t, "move_in_capsule.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, pdf, msg.Attachments[0].Data)
}

func TestBuildRetargetMessage(t *testing.T) {
	msg := BuildRetargetMessage("user@example.com", "2026-06-01")

	assert.Contains(t, msg.Subject, "D-60")
	assert.Contains(t, msg.HTMLBody, "2026-06-01")
	assert.Empty(t, msg.Attachments)
}
