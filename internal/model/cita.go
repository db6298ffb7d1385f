package model

// Status enumerates the lifecycle states of a cita record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusFinish   Status = "finish"
)

// Type distinguishes a simple appointment from a formal claim.
type Type string

const (
	TypeCita   Type = "cita"
	TypeDemand Type = "demand"
)

// Cita represents an appointment or claim record as served by the remote
// forms backend. Timestamps travel as ISO 8601 strings on the wire and are
// kept as strings here; this package models the remote contract, not local
// storage.
//
// Fields:
//  ID          – primary identifier assigned by the backend.
//  UserID      – owner currently assigned to the record; nil means the
//                record sits in the general pool.
//  Confirm     – confirmation timestamp; nil until the appointment is
//                confirmed. When present it falls inside [StartDate, EndDate].
//  Country     – optional nationality/country string.
//  Status      – pending, rejected or finish.
//  StartDate   – beginning of the appointment slot (inclusive).
//  EndDate     – end of the appointment slot; never before StartDate.
//  Type        – cita or demand.
type Cita struct {
	ID          int64   `json:"id"`
	UserID      *int64  `json:"userId"`
	Confirm     *string `json:"confirm"`
	Country     *string `json:"country"`
	Status      Status  `json:"status"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Reason      string  `json:"reason"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Type        Type    `json:"type"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
