package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cbodonnell/monstermaker/pkg/api/middleware"
	"github.com/cbodonnell/monstermaker/pkg/repositories"
	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repositories.Repository = &fakeRepository{}

// fakeRepository is an in-memory owner-scoped monster store
type fakeRepository struct {
	monsters map[string]*models.Monster
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		monsters: make(map[string]*models.Monster),
	}
}

func (r *fakeRepository) Close(ctx context.Context) error {
	return nil
}

func (r *fakeRepository) ListMonsters(ctx context.Context, ownerID string) ([]models.Monster, error) {
	monsters := []models.Monster{}
	for _, m := range r.monsters {
		if m.OwnerID == ownerID {
			monsters = append(monsters, *m)
		}
	}
	return monsters, nil
}

func (r *fakeRepository) GetMonster(ctx context.Context, ownerID string, monsterID string) (*models.Monster, error) {
	m, ok := r.monsters[monsterID]
	if !ok || m.OwnerID != ownerID {
		return nil, &repositories.ErrNotFound{}
	}
	copy := *m
	return &copy, nil
}

func (r *fakeRepository) CreateMonster(ctx context.Context, ownerID string, monster *models.Monster) (*models.Monster, error) {
	r.nextID++
	monster.ID = fmt.Sprintf("monster-%d", r.nextID)
	monster.OwnerID = ownerID
	r.monsters[monster.ID] = monster
	copy := *monster
	return &copy, nil
}

func (r *fakeRepository) UpdateMonster(ctx context.Context, ownerID string, monsterID string, patch *models.MonsterPatch) (*models.Monster, error) {
	m, ok := r.monsters[monsterID]
	if !ok || m.OwnerID != ownerID {
		return nil, &repositories.ErrNotFound{}
	}
	patch.Apply(m)
	copy := *m
	return &copy, nil
}

func (r *fakeRepository) DeleteMonster(ctx context.Context, ownerID string, monsterID string) error {
	m, ok := r.monsters[monsterID]
	if ok && m.OwnerID == ownerID {
		delete(r.monsters, monsterID)
	}
	return nil
}

func newRequest(t *testing.T, method string, target string, body io.Reader, callerID string, vars map[string]string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(r.Context(), middleware.IdentityContextKey, &models.Identity{ID: callerID})
	r = r.WithContext(ctx)
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}

func TestHandleListMonsters(t *testing.T) {
	repo := newFakeRepository()
	_, err := repo.CreateMonster(context.Background(), "u1", &models.Monster{Name: "Goblin"})
	require.NoError(t, err)
	_, err = repo.CreateMonster(context.Background(), "u2", &models.Monster{Name: "Dragon"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleListMonsters(repo)(w, newRequest(t, http.MethodGet, "/api/monsters", nil, "u1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	monsters := []models.Monster{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&monsters))
	require.Len(t, monsters, 1)
	assert.Equal(t, "Goblin", monsters[0].Name)
}

func TestHandleListMonsters_NoIdentity(t *testing.T) {
	repo := newFakeRepository()

	w := httptest.NewRecorder()
	HandleListMonsters(repo)(w, httptest.NewRequest(http.MethodGet, "/api/monsters", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleGetMonster(t *testing.T) {
	repo := newFakeRepository()
	goblin, err := repo.CreateMonster(context.Background(), "u1", &models.Monster{Name: "Goblin"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		callerID   string
		wantStatus int
	}{
		{
			name:       "owner gets the monster",
			callerID:   "u1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "another caller gets not found",
			callerID:   "u2",
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			vars := map[string]string{"monster_id": goblin.ID}
			HandleGetMonster(repo)(w, newRequest(t, http.MethodGet, "/api/monsters/"+goblin.ID, nil, tt.callerID, vars))

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				monster := &models.Monster{}
				require.NoError(t, json.NewDecoder(w.Body).Decode(monster))
				assert.Equal(t, "Goblin", monster.Name)
			}
		})
	}
}

func TestHandleCreateMonster_OwnerFromIdentity(t *testing.T) {
	repo := newFakeRepository()

	// a client-supplied ownerId is ignored
	body := strings.NewReader(`{"name":"Goblin","type":"Humanoid","hp":20,"exp":100,"ownerId":"someone-else"}`)
	w := httptest.NewRecorder()
	HandleCreateMonster(repo)(w, newRequest(t, http.MethodPost, "/api/monsters", body, "u1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	monster := &models.Monster{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(monster))
	assert.NotEmpty(t, monster.ID)
	assert.Equal(t, "u1", monster.OwnerID)
	assert.Equal(t, "Goblin", monster.Name)
	assert.Equal(t, "Humanoid", monster.Type)
	assert.Equal(t, 20, monster.HP)
	assert.Equal(t, 100, monster.Exp)
}

func TestHandleCreateMonster_BadRequest(t *testing.T) {
	repo := newFakeRepository()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed body",
			body: `{"name":`,
		},
		{
			name: "missing name",
			body: `{"type":"Humanoid"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleCreateMonster(repo)(w, newRequest(t, http.MethodPost, "/api/monsters", strings.NewReader(tt.body), "u1", nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, repo.monsters)
		})
	}
}

func TestHandleUpdateMonster_MergesFields(t *testing.T) {
	repo := newFakeRepository()
	created, err := repo.CreateMonster(context.Background(), "u1", &models.Monster{Name: "oldName", HP: 20})
	require.NoError(t, err)

	body := strings.NewReader(`{"name":"newName","hp":55}`)
	w := httptest.NewRecorder()
	vars := map[string]string{"monster_id": created.ID}
	HandleUpdateMonster(repo)(w, newRequest(t, http.MethodPut, "/api/monsters/"+created.ID, body, "u1", vars))

	require.Equal(t, http.StatusOK, w.Code)
	monster := &models.Monster{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(monster))
	assert.Equal(t, created.ID, monster.ID)
	assert.Equal(t, "newName", monster.Name)
	assert.Equal(t, 55, monster.HP)
	assert.Equal(t, "u1", monster.OwnerID)
}

func TestHandleUpdateMonster_NotOwned(t *testing.T) {
	repo := newFakeRepository()
	created, err := repo.CreateMonster(context.Background(), "u1", &models.Monster{Name: "Goblin"})
	require.NoError(t, err)

	body := strings.NewReader(`{"name":"newName"}`)
	w := httptest.NewRecorder()
	vars := map[string]string{"monster_id": created.ID}
	HandleUpdateMonster(repo)(w, newRequest(t, http.MethodPut, "/api/monsters/"+created.ID, body, "u2", vars))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Goblin", repo.monsters[created.ID].Name)
}

func TestHandleDeleteMonster_MessageFormat(t *testing.T) {
	repo := newFakeRepository()

	// the message is the same whether or not a monster matched
	w := httptest.NewRecorder()
	vars := map[string]string{"monster_id": "8675309"}
	HandleDeleteMonster(repo)(w, newRequest(t, http.MethodDelete, "/api/monsters/8675309", nil, "u1", vars))

	require.Equal(t, http.StatusOK, w.Code)
	message := &DeleteMessage{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(message))
	assert.Equal(t, "Deleted monster with id 8675309", message.Message)
}

func TestHandleDeleteMonster_RemovesOwnedMonster(t *testing.T) {
	repo := newFakeRepository()
	created, err := repo.CreateMonster(context.Background(), "u1", &models.Monster{Name: "Goblin"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	vars := map[string]string{"monster_id": created.ID}
	HandleDeleteMonster(repo)(w, newRequest(t, http.MethodDelete, "/api/monsters/"+created.ID, nil, "u1", vars))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.monsters)
}
