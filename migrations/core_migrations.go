package migrations

import "gorm.io/gorm"

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2026_01_03_000000_create_duellistes_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS duellistes (
						id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
						nom VARCHAR(255) UNIQUE NOT NULL,
						email VARCHAR(255) UNIQUE,
						avatar VARCHAR(512),
						categorie VARCHAR(10) DEFAULT 'SENIOR',
						statut VARCHAR(10) DEFAULT 'ACTIF',
						nb_victoires INTEGER DEFAULT 0,
						nb_defaites INTEGER DEFAULT 0,
						nb_matchs_total INTEGER DEFAULT 0,
						indice_touches INTEGER DEFAULT 0,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_duellistes_categorie ON duellistes(categorie);
					CREATE INDEX IF NOT EXISTS idx_duellistes_statut ON duellistes(statut);
					CREATE INDEX IF NOT EXISTS idx_duellistes_deleted_at ON duellistes(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP TABLE IF EXISTS duellistes CASCADE").Error
			},
		},
		{
			Name: "2026_01_04_000000_create_duels_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS duels (
						id SERIAL PRIMARY KEY,
						challenger_id INTEGER NOT NULL REFERENCES duellistes(id) ON DELETE CASCADE,
						adversaire_id INTEGER NOT NULL REFERENCES duellistes(id) ON DELETE CASCADE,
						arbitre_id INTEGER REFERENCES duellistes(id) ON DELETE SET NULL,
						statut VARCHAR(25) DEFAULT 'PROPOSE',
						date_prevue TIMESTAMP NULL,
						accepte_le TIMESTAMP NULL,
						valide_le TIMESTAMP NULL,
						score_challenger INTEGER NULL,
						score_adversaire INTEGER NULL,
						vainqueur_id INTEGER REFERENCES duellistes(id) ON DELETE SET NULL,
						valide_par_arbitre BOOLEAN DEFAULT false,
						notes TEXT DEFAULT '',
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_duels_challenger_id ON duels(challenger_id);
					CREATE INDEX IF NOT EXISTS idx_duels_adversaire_id ON duels(adversaire_id);
					CREATE INDEX IF NOT EXISTS idx_duels_arbitre_id ON duels(arbitre_id);
					CREATE INDEX IF NOT EXISTS idx_duels_vainqueur_id ON duels(vainqueur_id);
					CREATE INDEX IF NOT EXISTS idx_duels_statut ON duels(statut);
					CREATE INDEX IF NOT EXISTS idx_duels_deleted_at ON duels(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP TABLE IF EXISTS duels CASCADE").Error
			},
		},
		{
			Name: "2026_01_05_000000_create_score_validations_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS score_validations (
						id SERIAL PRIMARY KEY,
						duel_id INTEGER NOT NULL REFERENCES duels(id) ON DELETE CASCADE,
						dueliste_id INTEGER NOT NULL REFERENCES duellistes(id) ON DELETE CASCADE,
						score_challenger INTEGER NOT NULL,
						score_adversaire INTEGER NOT NULL,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_score_validations_duel_dueliste
						ON score_validations(duel_id, dueliste_id);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP TABLE IF EXISTS score_validations CASCADE").Error
			},
		},
	}
}
