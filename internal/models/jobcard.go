package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus represents the lifecycle state of a job card.
type JobStatus string

const (
	StatusNew         JobStatus = "new"
	StatusInProgress  JobStatus = "in_progress"
	StatusWaitingAuth JobStatus = "waiting_auth"
	StatusDone        JobStatus = "done"
)

// VehicleType represents the category of a serviced vehicle.
type VehicleType string

const (
	VehicleTwoWheeler  VehicleType = "2W"
	VehicleFourWheeler VehicleType = "4W"
)

// DefaultLabourCharge is applied to every new job card.
const DefaultLabourCharge float64 = 500

// JobCard is the work order tracking a single vehicle service visit.
// Updates and Parts are append-only; insertion order is chronological.
type JobCard struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName string             `bson:"customer_name" json:"customerName"`
	VehicleType  VehicleType        `bson:"vehicle_type" json:"vehicleType"`
	VehicleNo    string             `bson:"vehicle_no" json:"vehicleNo"`
	Status       JobStatus          `bson:"status" json:"status"`
	CreatedBy    primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Updates      []Update           `bson:"updates" json:"updates"`
	Parts        []PartLine         `bson:"parts" json:"parts"`
	// nil means the document predates the field; an explicit 0 is a
	// legitimate free-labour charge and is billed as such.
	LabourCharge *float64  `bson:"labour_charge,omitempty" json:"labourCharge,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Update is an immutable history entry on a job card.
type Update struct {
	Status        JobStatus          `bson:"status" json:"status"`
	Note          string             `bson:"note" json:"note"`
	CriticalIssue bool               `bson:"critical_issue" json:"criticalIssue"`
	UpdatedBy     primitive.ObjectID `bson:"updated_by" json:"updatedBy"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// PartLine is an immutable line item attached to a job card. Name and
// unit price are copied from the catalog at add-time; later catalog
// changes do not affect recorded parts.
type PartLine struct {
	InventoryCode string  `bson:"inventory_code" json:"inventoryCode"`
	Name          string  `bson:"name" json:"name"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	UnitPrice     float64 `bson:"unit_price" json:"unitPrice"`
}

// IsValidStatus checks if a status is one of the four known values.
func IsValidStatus(status JobStatus) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusWaitingAuth, StatusDone:
		return true
	default:
		return false
	}
}

// IsValidVehicleType checks if a vehicle type is valid.
func IsValidVehicleType(vt VehicleType) bool {
	return vt == VehicleTwoWheeler || vt == VehicleFourWheeler
}
