package handlers

import (
	"errors"

	"hisab/internal/gold"
	"hisab/internal/models"
	"hisab/internal/money"
	"hisab/internal/services"

	"github.com/shopspring/decimal"
)

var (
	errInvalidPurity = errors.New("invalid purity")
	errInvalidKarat  = errors.New("invalid karat")
	errInvalidGross  = errors.New("invalid gross weight")
)

// parseTransactionInput turns the raw request into a typed input. For gold
// entries purity may arrive as a percentage or a karat value, and the net
// amount may be omitted when it is fully determined by gross weight and
// purity.
func parseTransactionInput(req createTransactionRequest) (services.AddTransactionInput, error) {
	input := services.AddTransactionInput{
		ContactID:   req.ContactID,
		Type:        req.Type,
		Direction:   req.Direction,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.ReceiptURL != "" {
		input.ReceiptURL = &req.ReceiptURL
	}

	places := int32(money.CashPlaces)
	if req.Type == models.TypeGold {
		places = money.GoldPlaces
	}

	if req.Type == models.TypeGold {
		if req.GrossWeight != "" {
			gross, err := money.ParseAmount(req.GrossWeight, money.GoldPlaces)
			if err != nil {
				return services.AddTransactionInput{}, errInvalidGross
			}
			input.GrossWeight = &gross
		}
		purity, err := parsePurity(req.Purity, req.Karat)
		if err != nil {
			return services.AddTransactionInput{}, err
		}
		input.Purity = purity
		if req.Amount == "" && input.GrossWeight != nil && input.Purity != nil {
			input.Amount = gold.NetWeight(*input.GrossWeight, *input.Purity)
			return input, nil
		}
	}

	amount, err := money.ParseAmount(req.Amount, places)
	if err != nil {
		return services.AddTransactionInput{}, err
	}
	input.Amount = amount
	return input, nil
}

func parsePurity(purityRaw, karatRaw string) (*decimal.Decimal, error) {
	switch {
	case purityRaw != "":
		purity, err := decimal.NewFromString(purityRaw)
		if err != nil || purity.LessThanOrEqual(decimal.Zero) || purity.GreaterThan(decimal.NewFromInt(100)) {
			return nil, errInvalidPurity
		}
		return &purity, nil
	case karatRaw != "":
		karat, err := decimal.NewFromString(karatRaw)
		if err != nil || karat.LessThanOrEqual(decimal.Zero) || karat.GreaterThan(decimal.NewFromInt(24)) {
			return nil, errInvalidKarat
		}
		percent := gold.KaratToPercent(karat)
		return &percent, nil
	default:
		return nil, nil
	}
}
