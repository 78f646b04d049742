package action

import "soloville/internal/domain/village"

type Request struct {
	CitizenName string
	ActionCode  string
	// RequestKey, when set, makes a repeated request return the first outcome.
	RequestKey string
	Actor      string
}

type Response struct {
	OperationID string          `json:"operation_id"`
	Citizen     string          `json:"citizen"`
	Action      string          `json:"action"`
	Luck        village.Luck    `json:"luck"`
	Grants      []village.Grant `json:"grants"`
	EnergyDelta float64         `json:"energy_delta"`
	Energy      float64         `json:"energy"`
	WellBonus   bool            `json:"well_bonus"`
	ToolBonus   bool            `json:"tool_bonus"`
	Message     string          `json:"message"`
	Replayed    bool            `json:"replayed,omitempty"`
}
