package handlers

import (
	"net/http"

	"hisab/internal/gold"
	"hisab/internal/money"

	"github.com/shopspring/decimal"
)

func (h *Handler) GoldPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, gold.Presets)
}

type goldNetResponse struct {
	GrossWeight decimal.Decimal `json:"grossWeight"`
	Purity      decimal.Decimal `json:"purity"`
	NetWeight   decimal.Decimal `json:"netWeight"`
	Formatted   string          `json:"formatted"`
}

// GoldNet is a convenience calculator for the entry form: net 999-fine
// weight from gross weight and purity (percent or karat).
func (h *Handler) GoldNet(w http.ResponseWriter, r *http.Request) {
	gross, err := money.ParseAmount(r.URL.Query().Get("gross"), money.GoldPlaces)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidGross.Error())
		return
	}
	purity, err := parsePurity(r.URL.Query().Get("purity"), r.URL.Query().Get("karat"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if purity == nil {
		respondError(w, http.StatusBadRequest, "purity or karat is required")
		return
	}
	net := gold.NetWeight(gross, *purity)
	respondJSON(w, http.StatusOK, goldNetResponse{
		GrossWeight: gross,
		Purity:      *purity,
		NetWeight:   net,
		Formatted:   money.FormatGrams(net),
	})
}
