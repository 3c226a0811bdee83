package models

import "time"

// Worker is a therapist. Each worker belongs to exactly one branch and is
// available for the full branch hours on every open day unless on leave.
type Worker struct {
	ID              string    `json:"id"`
	BranchID        string    `json:"branchId"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio,omitempty"`
	YearsExperience int       `json:"yearsExperience"`
	Phone           string    `json:"phone,omitempty"`
	Location        string    `json:"location,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WorkerLeave marks a calendar date as a leave day for a worker.
type WorkerLeave struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"workerId"`
	LeaveDate time.Time `json:"leaveDate"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
