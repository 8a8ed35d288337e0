package handler

import (
	"net/http"
	"testing"

	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/GRAF231/brigada/internal/service"
	"github.com/GRAF231/brigada/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupScheduleTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "mgr-001", "Менеджер", entity.RoleManager)
	testutil.SeedTestUser(t, db, "client-001", "Заказчик", entity.RoleClient)
	testutil.SeedTestUser(t, db, "master-001", "Мастер", entity.RoleMaster)
	testutil.SeedTestProject(t, db, "prj-001", "Ремонт квартиры", "client-001", "mgr-001")
	db.Create(&entity.ProjectUser{ID: "pu-1", ProjectID: "prj-001", UserID: "master-001"})

	scheduleRepo := repository.NewScheduleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	scheduleSvc := service.NewScheduleService(scheduleRepo, projectRepo)
	h := NewScheduleHandler(scheduleSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api")

	api.GET("/projects/:id/schedule", h.GetOrCreate)
	api.POST("/schedules/:id/items", h.AddItem)
	api.PUT("/schedule-items/:id", h.UpdateItem)
	api.PATCH("/schedule-items/:id/status", h.ChangeStatus)
	api.DELETE("/schedule-items/:id", h.DeleteItem)

	return router
}

func TestScheduleGetOrCreate(t *testing.T) {
	router := setupScheduleTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	scheduleID := data["id"].(string)

	again := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, managerToken())
	againData := testutil.ParseResponse(again)["data"].(map[string]interface{})
	if againData["id"] != scheduleID {
		t.Fatal("second call created another schedule")
	}
}

func TestScheduleGetOrCreate_ClientCannotInitialize(t *testing.T) {
	router := setupScheduleTest(t)

	// Пока график не завёл редактор, заказчик получает 404
	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, clientToken())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for client before schedule exists, got %d", w.Code)
	}

	testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, managerToken())
	w = testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, clientToken())
	if w.Code != http.StatusOK {
		t.Fatalf("client must see created schedule, got %d", w.Code)
	}
}

func TestScheduleAddItem_EndBeforeStartRejected(t *testing.T) {
	router := setupScheduleTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, managerToken())
	scheduleID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, "/api/schedules/"+scheduleID+"/items", map[string]interface{}{
		"name":       "Черновые работы",
		"start_date": "2026-10-01T00:00:00Z",
		"end_date":   "2026-09-01T00:00:00Z",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestScheduleStatus_MasterAllowedClientNot(t *testing.T) {
	router := setupScheduleTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/schedule", nil, managerToken())
	scheduleID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, "/api/schedules/"+scheduleID+"/items", map[string]interface{}{
		"name": "Стяжка пола",
	}, managerToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: status %d, body %s", w.Code, w.Body.String())
	}
	itemID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Мастер отмечает ход работ
	w = testutil.DoRequest(router, http.MethodPatch, "/api/schedule-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ScheduleStatusInProgress,
	}, masterToken())
	if w.Code != http.StatusOK {
		t.Fatalf("master status: %d, body %s", w.Code, w.Body.String())
	}

	// Заказчик — нет
	w = testutil.DoRequest(router, http.MethodPatch, "/api/schedule-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ScheduleStatusCompleted,
	}, clientToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("client status: expected 403, got %d", w.Code)
	}

	// Мастеру нельзя редактировать сам этап
	w = testutil.DoRequest(router, http.MethodPut, "/api/schedule-items/"+itemID, map[string]interface{}{
		"name": "Другое название",
	}, masterToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("master edit: expected 403, got %d", w.Code)
	}
}
