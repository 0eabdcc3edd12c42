package validator

import (
	"log"

	"safehome_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-plan-tier': известный код плана (BASIC/PREMIUM)
	mustRegister("is-plan-tier", validatePlanTier)

	// 'is-tone': тон сообщения собственнику (soft/firm)
	mustRegister("is-tone", validateTone)

	// 'is-issue-type': тип проблемы для residence solution
	mustRegister("is-issue-type", validateIssueType)
}

func validatePlanTier(fl validator.FieldLevel) bool {
	switch models.PlanTier(fl.Field().String()) {
	case models.PlanTierBasic, models.PlanTierPremium:
		return true
	}
	return false
}

func validateTone(fl validator.FieldLevel) bool {
	switch models.Tone(fl.Field().String()) {
	case models.ToneSoft, models.ToneFirm:
		return true
	}
	return false
}

func validateIssueType(fl validator.FieldLevel) bool {
	switch models.IssueType(fl.Field().String()) {
	case models.IssueRepair, models.IssueDeposit, models.IssueRenewal, models.IssueNoise, models.IssueOther:
		return true
	}
	return false
}
