package services

import (
	"testing"
	"time"

	"core/apperr"
	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDueliste(t *testing.T) {
	db := setupTestDB(t)
	service := NewDuelisteService(db)

	email := "alice@club-duel.fr"
	dueliste, err := service.CreateDueliste(7, "Alice", &email, models.CategorieJunior)
	require.NoError(t, err)

	assert.Equal(t, uint(7), dueliste.ID)
	assert.Equal(t, "Alice", dueliste.Nom)
	assert.Equal(t, models.CategorieJunior, dueliste.Categorie)
	assert.Equal(t, models.StatutActif, dueliste.Statut)
	assert.Equal(t, 0, dueliste.NbMatchsTotal)

	// Une catégorie inconnue retombe sur SENIOR.
	autre, err := service.CreateDueliste(8, "Bruno", nil, "VETERAN")
	require.NoError(t, err)
	assert.Equal(t, models.CategorieSenior, autre.Categorie)
}

func TestCreateDuelisteNomEnDouble(t *testing.T) {
	db := setupTestDB(t)
	service := NewDuelisteService(db)

	_, err := service.CreateDueliste(1, "Alice", nil, models.CategorieSenior)
	require.NoError(t, err)

	_, err = service.CreateDueliste(2, "Alice", nil, models.CategorieSenior)
	assert.Error(t, err)
}

func TestUpdateDueliste(t *testing.T) {
	db := setupTestDB(t)
	service := NewDuelisteService(db)

	creerActif(t, db, 1, "Alice")

	statut := models.StatutSuspendu
	avatar := "https://club-duel.fr/avatars/alice.png"
	dueliste, err := service.UpdateDueliste(1, models.UpdateDuelisteRequest{
		Statut: &statut,
		Avatar: &avatar,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatutSuspendu, dueliste.Statut)
	require.NotNil(t, dueliste.Avatar)
	assert.Equal(t, avatar, *dueliste.Avatar)
	// La catégorie non fournie reste inchangée.
	assert.Equal(t, models.CategorieSenior, dueliste.Categorie)

	_, err = service.UpdateDueliste(99, models.UpdateDuelisteRequest{Statut: &statut})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetAllDuellistes(t *testing.T) {
	db := setupTestDB(t)
	service := NewDuelisteService(db)

	creerDueliste(t, db, 1, "Chloé", models.CategorieSenior, models.StatutActif)
	creerDueliste(t, db, 2, "Alice", models.CategorieJunior, models.StatutActif)
	creerDueliste(t, db, 3, "Bruno", models.CategorieSenior, models.StatutInactif)

	page, err := service.GetAllDuellistes("", "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	// Tri par nom croissant.
	assert.Equal(t, "Alice", page.Data[0].Nom)
	assert.Equal(t, "Bruno", page.Data[1].Nom)
	assert.Equal(t, "Chloé", page.Data[2].Nom)

	page, err = service.GetAllDuellistes(models.CategorieSenior, models.StatutActif, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Chloé", page.Data[0].Nom)

	// Pagination.
	page, err = service.GetAllDuellistes("", "", 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Chloé", page.Data[0].Nom)
}

func TestGetDuelsForDueliste(t *testing.T) {
	db := setupTestDB(t)
	service := NewDuelisteService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	now := time.Now()
	creerDuelValide(t, db, 1, 2, 15, 10, now.Add(-2*time.Hour))
	creerDuelValide(t, db, 2, 1, 15, 10, now.Add(-time.Hour))

	propose := models.Duel{ChallengerID: 1, AdversaireID: 2, Statut: models.StatutDuelPropose}
	require.NoError(t, db.Create(&propose).Error)

	page, err := service.GetDuelsForDueliste(1, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	victoires, err := service.GetDuelsForDueliste(1, "victoires", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, victoires.Total)

	defaites, err := service.GetDuelsForDueliste(1, "defaites", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, defaites.Total)

	_, err = service.GetDuelsForDueliste(99, "", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
