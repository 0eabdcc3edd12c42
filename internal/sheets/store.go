package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safehome_backend/internal/logger"
)

// AnalysisRow - строка аналитики. OrderID служит маркером
// идемпотентности: повторная запись одного заказа различима при чтении.
type AnalysisRow struct {
	Timestamp    time.Time
	District     string
	Deposit      int64
	Rent         int64
	RiskScore    int
	ToxicClauses []string
	PlanCode     string
	OrderID      string
}

// CapsuleRow - регистрация капсулы для ретаргетинга
type CapsuleRow struct {
	Timestamp  time.Time
	Email      string
	ExpiryDate string
	PhotoCount int
	CapsuleID  string
}

// Store гейтит запись согласием пользователя. Методы никогда не
// возвращают ошибку наружу: сбой таблицы не должен ронять выдачу отчёта
type Store struct {
	appender       RowAppender
	reader         RowReader
	analyticsRange string
	capsuleRange   string
}

func NewStore(appender RowAppender, reader RowReader, analyticsRange, capsuleRange string) *Store {
	return &Store{
		appender:       appender,
		reader:         reader,
		analyticsRange: analyticsRange,
		capsuleRange:   capsuleRange,
	}
}

// AppendAnalysisRow пишет строку только при явном согласии.
// Возвращает true если строка реально записана.
func (s *Store) AppendAnalysisRow(ctx context.Context, row AnalysisRow, consentGiven bool) bool {
	log := logger.GetLogger()

	if !consentGiven {
		log.Info("Запись аналитики пропущена: согласие не дано", "order_id", row.OrderID)
		return false
	}
	if s.appender == nil {
		log.Warn("Sheets не сконфигурирован, строка аналитики потеряна", "order_id", row.OrderID)
		return false
	}

	values := []interface{}{
		row.Timestamp.Format("2006-01-02 15:04:05"),
		row.District,
		fmt.Sprintf("%d", row.Deposit),
		fmt.Sprintf("%d", row.Rent),
		fmt.Sprintf("%d", row.RiskScore),
		strings.Join(row.ToxicClauses, ", "),
		row.PlanCode,
		row.OrderID,
	}

	start := time.Now()
	err := s.appender.Append(ctx, s.analyticsRange, values)
	logger.UpstreamLog("google_sheets", "append_analysis", time.Since(start), err)
	if err != nil {
		log.Error("Не удалось записать строку аналитики", "order_id", row.OrderID, "error", err)
		return false
	}
	return true
}

// AppendCapsuleRow регистрирует капсулу. Согласие здесь не требуется:
// e-mail дал сам пользователь ради напоминания
func (s *Store) AppendCapsuleRow(ctx context.Context, row CapsuleRow) bool {
	log := logger.GetLogger()

	if s.appender == nil {
		log.Warn("Sheets не сконфигурирован, регистрация капсулы потеряна", "capsule_id", row.CapsuleID)
		return false
	}

	values := []interface{}{
		row.Timestamp.Format("2006-01-02 15:04:05"),
		row.Email,
		row.ExpiryDate,
		fmt.Sprintf("%d", row.PhotoCount),
		row.CapsuleID,
	}

	start := time.Now()
	err := s.appender.Append(ctx, s.capsuleRange, values)
	logger.UpstreamLog("google_sheets", "append_capsule", time.Since(start), err)
	if err != nil {
		log.Error("Не удалось зарегистрировать капсулу", "capsule_id", row.CapsuleID, "error", err)
		return false
	}
	return true
}

// ReadAnalysisRows читает всю аналитику для админки
func (s *Store) ReadAnalysisRows(ctx context.Context) ([][]string, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("sheets reader не сконфигурирован")
	}

	start := time.Now()
	raw, err := s.reader.Read(ctx, s.analyticsRange)
	logger.UpstreamLog("google_sheets", "read_analysis", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		row := make([]string, len(r))
		for i, cell := range r {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
