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

func setupEstimateTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "mgr-001", "Менеджер", entity.RoleManager)
	testutil.SeedTestUser(t, db, "client-001", "Заказчик", entity.RoleClient)
	testutil.SeedTestUser(t, db, "master-001", "Мастер", entity.RoleMaster)
	testutil.SeedTestProject(t, db, "prj-001", "Ремонт квартиры", "client-001", "mgr-001")

	estimateRepo := repository.NewEstimateRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	estimateSvc := service.NewEstimateService(estimateRepo, projectRepo)
	h := NewEstimateHandler(estimateSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api")

	api.GET("/projects/:id/estimate", h.GetOrCreate)
	api.GET("/estimates/:id", h.Get)
	api.POST("/estimates/:id/items", h.AddItem)
	api.PUT("/estimate-items/:id", h.UpdateItem)
	api.PATCH("/estimate-items/:id/status", h.ChangeStatus)
	api.DELETE("/estimate-items/:id", h.DeleteItem)

	return router, db
}

func managerToken() string {
	return testutil.GenerateTestToken("mgr-001", "Менеджер", entity.RoleManager)
}

func clientToken() string {
	return testutil.GenerateTestToken("client-001", "Заказчик", entity.RoleClient)
}

func masterToken() string {
	return testutil.GenerateTestToken("master-001", "Мастер", entity.RoleMaster)
}

func getEstimate(t *testing.T, router *gin.Engine, token string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/estimate", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get estimate: status %d, body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data, _ := resp["data"].(map[string]interface{})
	if data == nil {
		t.Fatalf("get estimate: no data in response %s", w.Body.String())
	}
	return data
}

func addItem(t *testing.T, router *gin.Engine, estimateID string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, http.MethodPost, "/api/estimates/"+estimateID+"/items", body, managerToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: status %d, body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	item, _ := resp["data"].(map[string]interface{})
	return item
}

func TestEstimateGetOrCreate(t *testing.T) {
	router, db := setupEstimateTest(t)

	// Первое обращение создаёт пустую смету
	data := getEstimate(t, router, managerToken())
	estimateID, _ := data["id"].(string)
	if estimateID == "" {
		t.Fatal("estimate has no id")
	}
	items, ok := data["items"].([]interface{})
	if !ok || len(items) != 0 {
		t.Fatalf("new estimate must have empty items, got %v", data["items"])
	}

	// Повторное обращение возвращает ту же смету
	again := getEstimate(t, router, managerToken())
	if again["id"] != estimateID {
		t.Fatalf("second call created another estimate: %v != %v", again["id"], estimateID)
	}

	var count int64
	db.Model(&entity.Estimate{}).Where("project_id = ?", "prj-001").Count(&count)
	if count != 1 {
		t.Fatalf("expected single estimate per project, got %d", count)
	}
}

func TestEstimateGetOrCreate_ClientCannotInitialize(t *testing.T) {
	router, db := setupEstimateTest(t)

	// Пока смету не завёл редактор, заказчик получает 404
	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/prj-001/estimate", nil, clientToken())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for client before estimate exists, got %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&entity.Estimate{}).Where("project_id = ?", "prj-001").Count(&count)
	if count != 0 {
		t.Fatalf("client request must not create estimate, found %d", count)
	}

	// После создания менеджером заказчик видит смету своего проекта
	created := getEstimate(t, router, managerToken())
	data := getEstimate(t, router, clientToken())
	if data["id"] != created["id"] {
		t.Fatalf("client sees %v, manager created %v", data["id"], created["id"])
	}
}

func TestEstimateGetOrCreate_ProjectNotFound(t *testing.T) {
	router, _ := setupEstimateTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/projects/no-such/estimate", nil, managerToken())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAddItem_AmountComputed(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	item := addItem(t, router, estimateID, map[string]interface{}{
		"name":     "Штукатурка стен",
		"unit":     "м2",
		"quantity": 40,
		"price":    350.5,
	})

	if got := item["amount"].(float64); got != 14020 {
		t.Fatalf("amount = %v, want 14020", got)
	}
	if item["status"] != entity.ItemStatusNotStarted {
		t.Fatalf("new item status = %v", item["status"])
	}
	if item["revision"].(float64) != 1 {
		t.Fatalf("new item revision = %v", item["revision"])
	}
}

func TestAddItem_ExactAmountWithoutRounding(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	item := addItem(t, router, estimateID, map[string]interface{}{
		"name":     "Грунтовка",
		"unit":     "м2",
		"quantity": 2.5,
		"price":    99.99,
	})

	// Сумма — ровно произведение, без округления до копеек
	if got, want := item["amount"].(float64), 2.5*99.99; got != want {
		t.Fatalf("amount = %v, want %v", got, want)
	}
}

func TestAddItem_WithStatus(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	item := addItem(t, router, estimateID, map[string]interface{}{
		"name":     "Электромонтаж",
		"quantity": 1,
		"price":    50000,
		"status":   entity.ItemStatusInProgress,
	})
	if item["status"] != entity.ItemStatusInProgress {
		t.Fatalf("status = %v, want %v", item["status"], entity.ItemStatusInProgress)
	}

	w := testutil.DoRequest(router, http.MethodPost, "/api/estimates/"+estimateID+"/items", map[string]interface{}{
		"name":   "Позиция",
		"status": "half-done",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status on create: expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddItem_ClientForbidden(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	w := testutil.DoRequest(router, http.MethodPost, "/api/estimates/"+estimateID+"/items", map[string]interface{}{
		"name": "Самовольная позиция",
	}, clientToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddItem_ParentFromAnotherEstimateRejected(t *testing.T) {
	router, db := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	// Позиция в чужой смете
	db.Create(&entity.Estimate{ID: "est-other", ProjectID: "prj-other"})
	db.Create(&entity.EstimateItem{ID: "item-other", EstimateID: "est-other", Name: "Чужая", Revision: 1})

	w := testutil.DoRequest(router, http.MethodPost, "/api/estimates/"+estimateID+"/items", map[string]interface{}{
		"name":      "Позиция",
		"parent_id": "item-other",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateItem_RecomputesAmountAndBumpsRevision(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)
	item := addItem(t, router, estimateID, map[string]interface{}{
		"name": "Покраска", "quantity": 10, "price": 100,
	})
	itemID := item["id"].(string)

	w := testutil.DoRequest(router, http.MethodPut, "/api/estimate-items/"+itemID, map[string]interface{}{
		"quantity": 12,
	}, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}
	updated := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if updated["amount"].(float64) != 1200 {
		t.Fatalf("amount = %v, want 1200", updated["amount"])
	}
	if updated["revision"].(float64) != 2 {
		t.Fatalf("revision = %v, want 2", updated["revision"])
	}
}

func TestUpdateItem_StatusField(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)
	item := addItem(t, router, estimateID, map[string]interface{}{
		"name": "Стяжка", "quantity": 20, "price": 800,
	})
	itemID := item["id"].(string)

	w := testutil.DoRequest(router, http.MethodPut, "/api/estimate-items/"+itemID, map[string]interface{}{
		"status": entity.ItemStatusFinanced,
	}, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("update status: %d, body %s", w.Code, w.Body.String())
	}
	updated := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if updated["status"] != entity.ItemStatusFinanced {
		t.Fatalf("status = %v, want %v", updated["status"], entity.ItemStatusFinanced)
	}

	w = testutil.DoRequest(router, http.MethodPut, "/api/estimate-items/"+itemID, map[string]interface{}{
		"status": "almost",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status on update: expected 400, got %d", w.Code)
	}
}

func TestUpdateItem_StaleRevisionConflict(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)
	item := addItem(t, router, estimateID, map[string]interface{}{
		"name": "Полы", "quantity": 5, "price": 200,
	})
	itemID := item["id"].(string)

	// Первое обновление поднимает ревизию до 2
	w := testutil.DoRequest(router, http.MethodPut, "/api/estimate-items/"+itemID, map[string]interface{}{
		"price": 250, "revision": 1,
	}, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("first update failed: %d, %s", w.Code, w.Body.String())
	}

	// Второе с устаревшей ревизией отклоняется
	w = testutil.DoRequest(router, http.MethodPut, "/api/estimate-items/"+itemID, map[string]interface{}{
		"price": 300, "revision": 1,
	}, managerToken())
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestChangeStatus_ClientFinancedOnly(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)
	item := addItem(t, router, estimateID, map[string]interface{}{"name": "Электрика", "quantity": 1, "price": 5000})
	itemID := item["id"].(string)

	// Заказчику можно только «профинансирован»
	w := testutil.DoRequest(router, http.MethodPatch, "/api/estimate-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ItemStatusFinanced,
	}, clientToken())
	if w.Code != http.StatusOK {
		t.Fatalf("client financed: status %d, body %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPatch, "/api/estimate-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ItemStatusCompleted,
	}, clientToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("client completed: expected 403, got %d", w.Code)
	}

	// Менеджеру можно любой
	w = testutil.DoRequest(router, http.MethodPatch, "/api/estimate-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ItemStatusInProgress,
	}, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("manager in_progress: status %d", w.Code)
	}

	// Мастеру нельзя
	w = testutil.DoRequest(router, http.MethodPatch, "/api/estimate-items/"+itemID+"/status", map[string]interface{}{
		"status": entity.ItemStatusCompleted,
	}, masterToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("master: expected 403, got %d", w.Code)
	}
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)
	item := addItem(t, router, estimateID, map[string]interface{}{"name": "Плитка"})

	w := testutil.DoRequest(router, http.MethodPatch, "/api/estimate-items/"+item["id"].(string)+"/status", map[string]interface{}{
		"status": "half-done",
	}, managerToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteItem_CascadesToChildren(t *testing.T) {
	router, db := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	parent := addItem(t, router, estimateID, map[string]interface{}{"name": "Стены"})
	parentID := parent["id"].(string)
	child := addItem(t, router, estimateID, map[string]interface{}{"name": "Штукатурка", "parent_id": parentID})
	childID := child["id"].(string)
	addItem(t, router, estimateID, map[string]interface{}{"name": "Шпаклёвка", "parent_id": childID})
	survivor := addItem(t, router, estimateID, map[string]interface{}{"name": "Потолок"})

	w := testutil.DoRequest(router, http.MethodDelete, "/api/estimate-items/"+parentID, nil, managerToken())
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&entity.EstimateItem{}).Where("estimate_id = ?", estimateID).Count(&count)
	if count != 1 {
		t.Fatalf("expected only survivor left, got %d items", count)
	}

	var left entity.EstimateItem
	if err := db.First(&left, "estimate_id = ?", estimateID).Error; err != nil {
		t.Fatalf("survivor lookup: %v", err)
	}
	if left.ID != survivor["id"].(string) {
		t.Fatalf("wrong item survived: %s", left.ID)
	}
}

func TestGetEstimate_TreeShape(t *testing.T) {
	router, _ := setupEstimateTest(t)
	estimateID := getEstimate(t, router, managerToken())["id"].(string)

	parent := addItem(t, router, estimateID, map[string]interface{}{"name": "Демонтаж", "quantity": 1, "price": 10000})
	addItem(t, router, estimateID, map[string]interface{}{"name": "Вывоз мусора", "parent_id": parent["id"].(string), "quantity": 2, "price": 1500})

	data := getEstimate(t, router, managerToken())
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 root, got %d", len(items))
	}
	root := items[0].(map[string]interface{})
	children := root["children"].([]interface{})
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}
	if data["total"].(float64) != 13000 {
		t.Fatalf("total = %v, want 13000", data["total"])
	}
}
