package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"safehome_backend/pkg/apperrors"
)

// Verifier подтверждает платеж на стороне провайдера. Redirect-параметры -
// недоверенный клиентский ввод, поэтому списание признается только после
// успешного confirm-вызова с совпавшей суммой.
type Verifier interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) error
}

// TossVerifier - подтверждение через confirm-endpoint Toss Payments.
// Виджет на клиенте карточных данных сюда не передает; секретный ключ
// живет только на сервере.
type TossVerifier struct {
	SecretKey  string
	ConfirmURL string
	httpc      *http.Client
}

func NewTossVerifier(secretKey, confirmURL string) *TossVerifier {
	return &TossVerifier{
		SecretKey:  secretKey,
		ConfirmURL: confirmURL,
		httpc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (v *TossVerifier) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) error {
	if v.SecretKey == "" {
		return apperrors.ConfigurationError("payment", "toss secret key is not configured")
	}
	if paymentKey == "" || orderID == "" {
		return apperrors.UntrustedOutcomeError("redirect did not carry provider payment parameters")
	}

	body := map[string]any{
		"paymentKey": paymentKey,
		"orderId":    orderID,
		"amount":     amount,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.ConfirmURL, bytes.NewReader(payload))
	if err != nil {
		return apperrors.UpstreamError("payment", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(v.SecretKey+":")))

	resp, err := v.httpc.Do(req)
	if err != nil {
		return apperrors.UpstreamError("payment", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return apperrors.UntrustedOutcomeError(fmt.Sprintf("provider rejected confirmation: %d %s", resp.StatusCode, truncate(raw, 300)))
	}

	var confirmed struct {
		Status      string `json:"status"`
		TotalAmount int64  `json:"totalAmount"`
		OrderID     string `json:"orderId"`
	}
	if err := json.Unmarshal(raw, &confirmed); err != nil {
		return apperrors.UpstreamError("payment", err)
	}

	if confirmed.Status != "DONE" {
		return apperrors.UntrustedOutcomeError("provider reports payment status " + confirmed.Status)
	}
	if confirmed.TotalAmount != amount {
		return apperrors.UntrustedOutcomeError(fmt.Sprintf("charged amount %d does not match order amount %d", confirmed.TotalAmount, amount))
	}
	if confirmed.OrderID != orderID {
		return apperrors.UntrustedOutcomeError("provider order id does not match")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
