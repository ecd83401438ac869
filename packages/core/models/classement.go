package models

// ClassementEntry est une ligne du classement : un dueliste actif avec
// ses points et son rang après tri.
type ClassementEntry struct {
	Rang          int     `json:"rang"`
	DuelisteID    uint    `json:"dueliste_id"`
	Nom           string  `json:"nom"`
	Avatar        *string `json:"avatar,omitempty"`
	Categorie     string  `json:"categorie"`
	NbVictoires   int     `json:"nb_victoires"`
	NbDefaites    int     `json:"nb_defaites"`
	NbMatchsTotal int     `json:"nb_matchs_total"`
	IndiceTouches int     `json:"indice_touches"`
	TotalPoints   int     `json:"total_points"`
	WinRate       float64 `json:"win_rate"`
}

// BilanAdversaire est le bilan victoires/défaites contre un adversaire
// donné, calculé sur les duels VALIDE.
type BilanAdversaire struct {
	AdversaireID uint   `json:"adversaire_id"`
	Nom          string `json:"nom"`
	Victoires    int    `json:"victoires"`
	Defaites     int    `json:"defaites"`
}

// DuelisteDetail est la vue détaillée d'un dueliste : sa ligne de
// classement, son bilan par adversaire et sa série en cours.
type DuelisteDetail struct {
	Dueliste        Dueliste          `json:"dueliste"`
	TotalPoints     int               `json:"total_points"`
	WinRate         float64           `json:"win_rate"`
	BilanAdversaire []BilanAdversaire `json:"bilan_adversaires"`
	SerieEnCours    int               `json:"serie_en_cours"`
	SerieType       string            `json:"serie_type"` // "victoire", "defaite" ou ""
}
