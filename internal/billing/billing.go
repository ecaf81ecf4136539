package billing

import (
	"github.com/shopspring/decimal"

	"github.com/autoserve/jobcard-backend/internal/models"
)

// GST rate applied to the subtotal.
var gstRate = decimal.NewFromFloat(0.18)

// Bill is the itemized invoice computed from a job card snapshot.
type Bill struct {
	JobCardID    string            `json:"jobCardId"`
	CustomerName string            `json:"customerName"`
	VehicleNo    string            `json:"vehicleNo"`
	Parts        []models.PartLine `json:"parts"`
	PartsTotal   float64           `json:"partsTotal"`
	LabourCharge float64           `json:"labourCharge"`
	Subtotal     float64           `json:"subtotal"`
	GST          float64           `json:"gst"`
	Total        float64           `json:"total"`
}

// Compute calculates the bill for a job card. Pure: no side effects,
// same card always yields the same bill. All monetary outputs are
// rounded to 2 decimal places, half away from zero.
//
// The labour fallback applies only when the charge was never set; an
// explicit 0 is billed as 0.
func Compute(card *models.JobCard) Bill {
	partsTotal := decimal.Zero
	for _, part := range card.Parts {
		line := decimal.NewFromFloat(part.UnitPrice).Mul(decimal.NewFromInt(int64(part.Quantity)))
		partsTotal = partsTotal.Add(line)
	}

	labour := decimal.NewFromFloat(models.DefaultLabourCharge)
	if card.LabourCharge != nil {
		labour = decimal.NewFromFloat(*card.LabourCharge)
	}

	subtotal := partsTotal.Add(labour)
	gst := subtotal.Mul(gstRate)
	total := subtotal.Add(gst)

	return Bill{
		JobCardID:    card.ID.Hex(),
		CustomerName: card.CustomerName,
		VehicleNo:    card.VehicleNo,
		Parts:        card.Parts,
		PartsTotal:   round2(partsTotal),
		LabourCharge: round2(labour),
		Subtotal:     round2(subtotal),
		GST:          round2(gst),
		Total:        round2(total),
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
