package models

type Stats struct {
	TotalDuellistes      int64 `json:"total_duellistes"`
	TotalDuels           int64 `json:"total_duels"`
	DuelsValides         int64 `json:"duels_valides"`
	DuelsLast7Days       int64 `json:"duels_last_7_days"`
	DuelsPrevious7Days   int64 `json:"duels_previous_7_days"`
	DuelsEnNegociation   int64 `json:"duels_en_negociation"`
	InvitationsEnAttente int64 `json:"invitations_en_attente"`
}
