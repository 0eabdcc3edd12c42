package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"safehome_backend/internal/dto"
	"safehome_backend/internal/email"
	"safehome_backend/internal/imageprocessor"
	"safehome_backend/internal/report"
	"safehome_backend/internal/sheets"
)

type fakeProvider struct {
	sent []email.Message
	err  error
}

func (f *fakeProvider) Send(msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func capsuleFixture() CapsuleService {
	return NewCapsuleService(
		newFakeCapsuleRepo(),
		imageprocessor.NewProcessor(85),
		report.NewPDFBuilder(""),
		&fakeProvider{},
		sheets.NewStore(&countingAppender{}, nil, "a!A:H", "c!A:E"),
	)
}

func TestSealCapsule_RequiresPhotos(t *testing.T) {
	svc := capsuleFixture()

	_, err := svc.SealCapsule(context.Background(), &dto.CapsuleForm{
		Email:      "user@example.com",
		ExpiryDate: "2026-06-01",
	}, nil)
	assert.Error(t, err)
}

func TestSealCapsule_RejectsBadExpiryDate(t *testing.T) {
	svc := capsuleFixture()

	_, err := svc.SealCapsule(context.Background(), &dto.CapsuleForm{
		Email:      "user@example.com",
		ExpiryDate: "06/01/2026",
	}, []PhotoUpload{{Sector: "거실", Reader: bytes.NewReader([]byte("x"))}})
	assert.Error(t, err)
}

func TestSealCapsule_RejectsNonImagePhoto(t *testing.T) {
	svc := capsuleFixture()

	_, err := svc.SealCapsule(context.Background(), &dto.CapsuleForm{
		Email:      "user@example.com",
		ExpiryDate: "2026-06-01",
	}, []PhotoUpload{{Sector: "거실", Reader: bytes.NewReader([]byte("not an image"))}})
	assert.Error(t, err)
}
