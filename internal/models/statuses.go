package models

type PlanTier string
type Tone string
type IssueType string
type OrderStatus string
type PaymentStatus string

const (
	PlanTierBasic   PlanTier = "BASIC"
	PlanTierPremium PlanTier = "PREMIUM"

	// Тон сообщения собственнику: мягкая просьба или ссылка на закон
	ToneSoft Tone = "soft"
	ToneFirm Tone = "firm"

	IssueRepair  IssueType = "repair"
	IssueDeposit IssueType = "deposit"
	IssueRenewal IssueType = "renewal"
	IssueNoise   IssueType = "noise"
	IssueOther   IssueType = "other"

	OrderStatusCreated  OrderStatus = "created"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusAnalyzed OrderStatus = "analyzed"
	OrderStatusFailed   OrderStatus = "failed"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)
