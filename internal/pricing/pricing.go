package pricing

import (
	"safehome_backend/internal/config"
	"safehome_backend/internal/models"
	"safehome_backend/pkg/apperrors"
)

// Charge - детерминированный расчет стоимости из выбора плана.
// finalPrice = discounted при явном согласии на передачу данных, иначе base.
// Частичных скидок и стекинга нет.
type Charge struct {
	BasePrice       int64
	DiscountedPrice int64
	FinalPrice      int64
	PlanCode        models.PlanTier
}

// Compute - чистая функция без побочных эффектов. Единственный отказ -
// неизвестный код плана в прайс-таблице (ошибка конфигурации).
func Compute(tier models.PlanTier, consentGiven bool, table map[string]config.Plan) (Charge, error) {
	plan, ok := table[string(tier)]
	if !ok {
		return Charge{}, apperrors.ConfigurationError("pricing", "plan tier is not configured: "+string(tier))
	}

	charge := Charge{
		BasePrice:       plan.Base,
		DiscountedPrice: plan.Discounted,
		PlanCode:        tier,
	}
	if consentGiven {
		charge.FinalPrice = plan.Discounted
	} else {
		charge.FinalPrice = plan.Base
	}
	return charge, nil
}
