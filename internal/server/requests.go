package server

import (
	"priceview/internal/interaction"
	"priceview/internal/selection"
)

// ViewRequest carries one interaction together with the state it applies to.
// An empty PriorProduct means the page is being loaded for the first time.
type ViewRequest struct {
	Product string `query:"product" json:"product"`
	Trigger string `query:"trigger" json:"trigger" validate:"omitempty,oneof=product-dropdown btn-1m btn-6m btn-all"`
	Btn1M   int    `query:"btn_1m" json:"btn_1m" validate:"gte=0"`
	Btn6M   int    `query:"btn_6m" json:"btn_6m" validate:"gte=0"`
	BtnAll  int    `query:"btn_all" json:"btn_all" validate:"gte=0"`

	PriorProduct string `query:"prior_product" json:"prior_product"`
	PriorRange   string `query:"prior_range" json:"prior_range" default:"all-time" validate:"oneof=all-time 1-month 6-months all 1m 6m"`
	PriorBtn1M   int    `query:"prior_btn_1m" json:"prior_btn_1m" validate:"gte=0"`
	PriorBtn6M   int    `query:"prior_btn_6m" json:"prior_btn_6m" validate:"gte=0"`
	PriorBtnAll  int    `query:"prior_btn_all" json:"prior_btn_all" validate:"gte=0"`
}

// Prior rebuilds the state the interaction applies to.
func (r ViewRequest) Prior() (interaction.State, error) {
	if r.PriorProduct == "" {
		return interaction.State{
			Clicks: interaction.Clicks{LastMonth: r.PriorBtn1M, LastSixMonths: r.PriorBtn6M, AllTime: r.PriorBtnAll},
		}, nil
	}
	rng, err := selection.ParseRange(r.PriorRange)
	if err != nil {
		return interaction.State{}, err
	}
	return interaction.State{
		Selection: selection.Selection{Product: r.PriorProduct, Range: rng},
		Clicks:    interaction.Clicks{LastMonth: r.PriorBtn1M, LastSixMonths: r.PriorBtn6M, AllTime: r.PriorBtnAll},
		Resolved:  true,
	}, nil
}

// Event returns the interaction itself.
func (r ViewRequest) Event() interaction.Event {
	return interaction.Event{
		Product: r.Product,
		Trigger: interaction.TriggerID(r.Trigger),
		Clicks:  interaction.Clicks{LastMonth: r.Btn1M, LastSixMonths: r.Btn6M, AllTime: r.BtnAll},
	}
}

// ChartRequest selects a rendered chart image.
type ChartRequest struct {
	Product string `query:"product" json:"product" validate:"required"`
	Range   string `query:"range" json:"range" default:"all-time" validate:"oneof=all-time 1-month 6-months all 1m 6m"`
	Width   int    `query:"width" json:"width" validate:"gte=0,lte=4096"`
	Height  int    `query:"height" json:"height" validate:"gte=0,lte=4096"`
}

// Selection converts the request into a validated selection.
func (r ChartRequest) Selection() (selection.Selection, error) {
	rng, err := selection.ParseRange(r.Range)
	if err != nil {
		return selection.Selection{}, err
	}
	return selection.Selection{Product: r.Product, Range: rng}, nil
}
