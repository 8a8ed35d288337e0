package handler

import (
	"net/http"
	"testing"

	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/GRAF231/brigada/internal/service"
	"github.com/GRAF231/brigada/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupProjectTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "mgr-001", "Менеджер", entity.RoleManager)
	testutil.SeedTestUser(t, db, "client-001", "Заказчик", entity.RoleClient)
	testutil.SeedTestUser(t, db, "client-002", "Второй заказчик", entity.RoleClient)
	testutil.SeedTestUser(t, db, "master-001", "Мастер", entity.RoleMaster)

	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectSvc := service.NewProjectService(projectRepo, userRepo)
	h := NewProjectHandler(projectSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api")

	api.POST("/projects", h.Create)
	api.GET("/projects", h.List)
	api.GET("/projects/:id", h.Get)
	api.PUT("/projects/:id", h.Update)
	api.DELETE("/projects/:id", h.Delete)
	api.GET("/projects/:id/members", h.ListMembers)
	api.POST("/projects/:id/members", h.AddMember)
	api.DELETE("/projects/:id/members/:userId", h.RemoveMember)

	return router, db
}

func createProject(t *testing.T, router *gin.Engine, name, clientID string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, http.MethodPost, "/api/projects", map[string]interface{}{
		"name":      name,
		"client_id": clientID,
	}, managerToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status %d, body %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestProjectCreate_ManagerBecomesOwner(t *testing.T) {
	router, _ := setupProjectTest(t)

	project := createProject(t, router, "Ремонт офиса", "client-001")
	if project["manager_id"] != "mgr-001" {
		t.Fatalf("manager_id = %v", project["manager_id"])
	}
	if project["status"] != entity.ProjectStatusPlanning {
		t.Fatalf("status = %v", project["status"])
	}
}

func TestProjectCreate_ClientForbidden(t *testing.T) {
	router, _ := setupProjectTest(t)

	w := testutil.DoRequest(router, http.MethodPost, "/api/projects", map[string]interface{}{
		"name":      "Свой проект",
		"client_id": "client-001",
	}, clientToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestProjectCreate_NonClientRejected(t *testing.T) {
	router, _ := setupProjectTest(t)

	w := testutil.DoRequest(router, http.MethodPost, "/api/projects", map[string]interface{}{
		"name":      "Проект",
		"client_id": "master-001",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectList_ScopedByRole(t *testing.T) {
	router, db := setupProjectTest(t)

	p1 := createProject(t, router, "Проект первого заказчика", "client-001")
	createProject(t, router, "Проект второго заказчика", "client-002")

	// Менеджер видит оба
	w := testutil.DoRequest(router, http.MethodGet, "/api/projects", nil, managerToken())
	items := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("manager sees %d projects, want 2", len(items))
	}

	// Заказчик — только свой
	w = testutil.DoRequest(router, http.MethodGet, "/api/projects", nil, clientToken())
	items = testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("client sees %d projects, want 1", len(items))
	}

	// Мастер без членства не видит ничего
	w = testutil.DoRequest(router, http.MethodGet, "/api/projects", nil, masterToken())
	items = testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 0 {
		t.Fatalf("master sees %d projects, want 0", len(items))
	}

	// После включения в команду проект появляется
	db.Create(&entity.ProjectUser{ID: "pu-1", ProjectID: p1["id"].(string), UserID: "master-001"})
	w = testutil.DoRequest(router, http.MethodGet, "/api/projects", nil, masterToken())
	items = testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("member master sees %d projects, want 1", len(items))
	}
}

func TestProjectGet_ForeignClientForbidden(t *testing.T) {
	router, _ := setupProjectTest(t)
	project := createProject(t, router, "Проект", "client-001")

	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/"+project["id"].(string), nil,
		testutil.GenerateTestToken("client-002", "Второй заказчик", entity.RoleClient))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestProjectMembers(t *testing.T) {
	router, _ := setupProjectTest(t)
	project := createProject(t, router, "Проект", "client-001")
	projectID := project["id"].(string)

	w := testutil.DoRequest(router, http.MethodPost, "/api/projects/"+projectID+"/members", map[string]interface{}{
		"user_id": "master-001",
	}, managerToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: status %d, body %s", w.Code, w.Body.String())
	}

	// Повторное добавление — конфликт
	w = testutil.DoRequest(router, http.MethodPost, "/api/projects/"+projectID+"/members", map[string]interface{}{
		"user_id": "master-001",
	}, managerToken())
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate member: expected 409, got %d", w.Code)
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/projects/"+projectID+"/members", nil, managerToken())
	members := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(members) != 1 {
		t.Fatalf("members = %d, want 1", len(members))
	}

	w = testutil.DoRequest(router, http.MethodDelete, "/api/projects/"+projectID+"/members/master-001", nil, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("remove member: status %d", w.Code)
	}
}

func TestProjectDelete_CascadesEverything(t *testing.T) {
	router, db := setupProjectTest(t)
	project := createProject(t, router, "Под снос", "client-001")
	projectID := project["id"].(string)

	// Наполняем проект связанными данными напрямую
	db.Create(&entity.Estimate{ID: "est-1", ProjectID: projectID})
	db.Create(&entity.EstimateItem{ID: "item-1", EstimateID: "est-1", Name: "Позиция", Revision: 1})
	db.Create(&entity.Schedule{ID: "sch-1", ProjectID: projectID})
	db.Create(&entity.ScheduleItem{ID: "sitem-1", ScheduleID: "sch-1", Name: "Этап", Status: entity.ScheduleStatusNotStarted})
	db.Create(&entity.StatusMessage{ID: "msg-1", ProjectID: projectID, UserID: "mgr-001", Message: "Начали"})
	db.Create(&entity.ProjectUser{ID: "pu-1", ProjectID: projectID, UserID: "master-001"})

	w := testutil.DoRequest(router, http.MethodDelete, "/api/projects/"+projectID, nil, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("delete project: status %d, body %s", w.Code, w.Body.String())
	}

	checks := []struct {
		name  string
		query *gorm.DB
	}{
		{"estimates", db.Model(&entity.Estimate{}).Where("project_id = ?", projectID)},
		{"estimate_items", db.Model(&entity.EstimateItem{}).Where("estimate_id = ?", "est-1")},
		{"schedules", db.Model(&entity.Schedule{}).Where("project_id = ?", projectID)},
		{"schedule_items", db.Model(&entity.ScheduleItem{}).Where("schedule_id = ?", "sch-1")},
		{"status_messages", db.Model(&entity.StatusMessage{}).Where("project_id = ?", projectID)},
		{"project_users", db.Model(&entity.ProjectUser{}).Where("project_id = ?", projectID)},
	}
	for _, check := range checks {
		var n int64
		check.query.Count(&n)
		if n != 0 {
			t.Errorf("%s not cascaded: %d rows left", check.name, n)
		}
	}
}
