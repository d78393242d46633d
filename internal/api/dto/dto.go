package dto

import (
	"github.com/shopspring/decimal"

	"github.com/evapetschnigg/CDA/internal/core"
	"github.com/evapetschnigg/CDA/internal/domain"
)

// EventRequest is the wire form of one participant action. Field names
// follow the trading screen's payload; optional fields stay pointers so
// the engine can tell "omitted" from "zero".
type EventRequest struct {
	OperationType string `json:"operationType" binding:"required"`

	IsBid       *int             `json:"isBid,omitempty"`
	LimitPrice  *decimal.Decimal `json:"limitPrice,omitempty"`
	LimitVolume *int             `json:"limitVolume,omitempty"`

	MakerID           *int             `json:"makerID,omitempty"`
	OfferID           *int             `json:"offerID,omitempty"`
	TransactionPrice  *decimal.Decimal `json:"transactionPrice,omitempty"`
	TransactionVolume *int             `json:"transactionVolume,omitempty"`

	Good     string `json:"good,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// Event converts the request into the engine's event for the given actor.
func (r *EventRequest) Event(actor int) core.Event {
	return core.Event{
		Op:                r.OperationType,
		Actor:             actor,
		IsBid:             r.IsBid,
		LimitPrice:        r.LimitPrice,
		LimitVolume:       r.LimitVolume,
		MakerID:           r.MakerID,
		OfferID:           r.OfferID,
		TransactionPrice:  r.TransactionPrice,
		TransactionVolume: r.TransactionVolume,
		Good:              r.Good,
		Quantity:          r.Quantity,
	}
}

type EventResponse struct {
	MarketID string                  `json:"market_id"`
	View     *domain.ParticipantView `json:"view"`
}

type OpenMarketRequest struct {
	Framing              string  `json:"framing,omitempty"`
	EndowmentType        string  `json:"endowment_type,omitempty"`
	Traders              int     `json:"traders" binding:"required"`
	Observers            int     `json:"observers,omitempty"`
	MarketSeconds        int     `json:"market_seconds,omitempty"`
	ShortSelling         bool    `json:"short_selling,omitempty"`
	MarginBuying         bool    `json:"margin_buying,omitempty"`
	SupplyShockIntensity float64 `json:"supply_shock_intensity,omitempty"`
	Period               int     `json:"period,omitempty"`
}

type ParticipantSummary struct {
	ID         int    `json:"id"`
	Role       string `json:"role"`
	Preference string `json:"preference"`
}

type OpenMarketResponse struct {
	MarketID     string               `json:"market_id"`
	Treatment    string               `json:"treatment"`
	Gini         decimal.Decimal      `json:"gini"`
	Participants []ParticipantSummary `json:"participants"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
