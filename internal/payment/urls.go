package payment

import (
	"net/url"
	"strconv"
	"strings"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "SUCCESS"
	OutcomeFail    OutcomeStatus = "FAIL"
)

// Outcome - то, что утверждают параметры redirect-а. Это клиентский ввод,
// НЕ доказательство оплаты: заказ переводится в paid только после
// Verifier.Confirm.
type Outcome struct {
	Status       OutcomeStatus
	PlanCode     string
	ConsentGiven bool

	// Параметры, которые провайдер добавляет к successUrl сам;
	// нужны для серверного подтверждения
	PaymentKey string
	OrderID    string
	Amount     int64
}

// ReturnPath - путь возврата, который виджету отдает сервер. Должен
// совпадать с маршрутом GET /payments/return внутри группы /api/v1.
const ReturnPath = "/api/v1/payments/return"

// ReturnURLs - пара адресов возврата для платежного виджета
type ReturnURLs struct {
	SuccessURL string
	FailURL    string
}

// BuildReturnURLs создает адреса возврата. successUrl несет код плана и флаг
// согласия; булево сериализуется канонически в нижнем регистре.
func BuildReturnURLs(baseURL, planCode string, consentGiven bool) ReturnURLs {
	success := url.Values{}
	success.Set("payment", "success")
	success.Set("plan", planCode)
	success.Set("data_agree", strconv.FormatBool(consentGiven))

	fail := url.Values{}
	fail.Set("payment", "fail")

	return ReturnURLs{
		SuccessURL: baseURL + "?" + success.Encode(),
		FailURL:    baseURL + "?" + fail.Encode(),
	}
}

// ParseReturnURL разбирает URL возврата. Чистая функция: повторный разбор
// того же URL дает идентичный Outcome. Успех - только точное
// payment=success; любая другая комбинация, включая отсутствие параметра,
// трактуется как отказ.
func ParseReturnURL(rawURL string) (Outcome, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Outcome{Status: OutcomeFail}, err
	}
	return ParseReturnQuery(u.Query()), nil
}

// ParseReturnQuery - то же самое поверх уже разобранных query-параметров
// (хендлер отдает c.Request.URL.Query() напрямую)
func ParseReturnQuery(q url.Values) Outcome {
	if q.Get("payment") != "success" {
		return Outcome{Status: OutcomeFail}
	}

	amount, _ := strconv.ParseInt(q.Get("amount"), 10, 64)

	return Outcome{
		Status:   OutcomeSuccess,
		PlanCode: q.Get("plan"),
		// Исторически флаг приходил и как "true", и как "True";
		// разбор нечувствителен к регистру, сериализация канонична
		ConsentGiven: strings.EqualFold(q.Get("data_agree"), "true"),
		PaymentKey:   q.Get("paymentKey"),
		OrderID:      q.Get("orderId"),
		Amount:       amount,
	}
}
