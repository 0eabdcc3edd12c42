package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"safehome_backend/pkg/apperrors"
)

// PDFBuilder генерирует PDF-артефакты. Для хангыля нужен UTF-8 TTF,
// путь задаётся конфигом (малгун/나눔고딕)
type PDFBuilder struct {
	FontPath string
}

func NewPDFBuilder(fontPath string) *PDFBuilder {
	return &PDFBuilder{FontPath: fontPath}
}

func (b *PDFBuilder) newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("hangul", "", b.FontPath)
	pdf.SetMargins(18, 18, 18)
	return pdf
}

// CapsulePhoto - один снимок в капсуле, уже с водяным знаком
type CapsulePhoto struct {
	Sector string
	JPEG   []byte
}

// BuildPhotoReport - PDF "타임캡슐": по снимку на страницу с подписью сектора
func (b *PDFBuilder) BuildPhotoReport(email string, takenAt time.Time, expiryDate string, photos []CapsulePhoto) ([]byte, error) {
	if len(photos) == 0 {
		return nil, apperrors.NewBadRequestError("капсула без фотографий")
	}

	pdf := b.newDoc()

	pdf.AddPage()
	pdf.SetFont("hangul", "", 20)
	pdf.CellFormat(0, 12, "입주 하자 타임캡슐", "", 1, "C", false, 0, "")
	pdf.SetFont("hangul", "", 11)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, fmt.Sprintf("촬영 일시: %s", takenAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("계약 만료일: %s", expiryDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("보관 이메일: %s", email), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("hangul", "", 9)
	pdf.MultiCell(0, 5, "본 문서는 입주 시점의 주택 상태를 기록한 자료입니다. 모든 사진에는 촬영 시각 워터마크가 포함되어 있으며, 퇴거 시 원상복구 분쟁의 근거 자료로 사용할 수 있습니다.", "", "L", false)

	for i, photo := range photos {
		pdf.AddPage()
		pdf.SetFont("hangul", "", 14)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d. %s", i+1, photo.Sector), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		name := fmt.Sprintf("photo_%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(photo.JPEG))
		// ширина во всю полосу, высота по пропорции
		pdf.ImageOptions(name, 18, pdf.GetY(), 174, 0, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	}

	return b.output(pdf)
}

// LegalLetter - блоки внесудебного требования (내용증명)
type LegalLetter struct {
	Sender   string
	Receiver string
	Address  string
	Title    string
	Body     string
	Date     time.Time
}

// BuildLegalLetter - PDF внесудебного письма для отправки заказным
func (b *PDFBuilder) BuildLegalLetter(letter LegalLetter) ([]byte, error) {
	pdf := b.newDoc()
	pdf.AddPage()

	pdf.SetFont("hangul", "", 22)
	pdf.CellFormat(0, 14, "내 용 증 명", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("hangul", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("발신인: %s", letter.Sender), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("수신인: %s", letter.Receiver), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("부동산 소재지: %s", letter.Address), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("hangul", "", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("제목: %s", letter.Title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("hangul", "", 11)
	pdf.MultiCell(0, 7, letter.Body, "", "L", false)
	pdf.Ln(10)

	pdf.CellFormat(0, 8, letter.Date.Format("2006년 01월 02일"), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("%s (인)", letter.Sender), "", 1, "R", false, 0, "")

	return b.output(pdf)
}

func (b *PDFBuilder) output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("генерация PDF: %w", err)
	}
	return buf.Bytes(), nil
}
