package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/GRAF231/brigada/internal/access"
	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EstimateService сервис смет
type EstimateService struct {
	estimateRepo *repository.EstimateRepository
	projectRepo  *repository.ProjectRepository
}

// NewEstimateService создаёт сервис смет
func NewEstimateService(estimateRepo *repository.EstimateRepository, projectRepo *repository.ProjectRepository) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		projectRepo:  projectRepo,
	}
}

// EstimateView смета с деревом позиций
type EstimateView struct {
	*entity.Estimate
	Items []*EstimateItemNode `json:"items"`
	Total float64             `json:"total"`
}

// AddItemRequest запрос добавления позиции
type AddItemRequest struct {
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Status   *string `json:"status"`
}

// UpdateItemRequest запрос обновления позиции. Revision не обязателен:
// при его наличии обновление отклоняется, если позиция изменена параллельно.
type UpdateItemRequest struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	Quantity *float64 `json:"quantity"`
	Price    *float64 `json:"price"`
	Status   *string  `json:"status"`
	Revision *int64   `json:"revision"`
}

// GetOrCreate возвращает смету проекта, создавая пустую при первом обращении
func (s *EstimateService) GetOrCreate(ctx context.Context, p access.Principal, projectID string) (*EstimateView, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: проект не найден", ErrNotFound)
		}
		return nil, err
	}

	if err := s.checkViewAccess(ctx, p, project); err != nil {
		return nil, err
	}

	estimate, err := s.estimateRepo.FindByProject(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Смету при первом обращении заводит только редактор
		if !access.CanEditEstimate(p) {
			return nil, fmt.Errorf("%w: смета не найдена", ErrNotFound)
		}
		estimate = &entity.Estimate{
			ID:        generateID(),
			ProjectID: projectID,
		}
		if createErr := s.estimateRepo.Create(ctx, estimate); createErr != nil {
			// Параллельный запрос успел создать смету первым
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				estimate, err = s.estimateRepo.FindByProject(ctx, projectID)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, fmt.Errorf("создание сметы: %w", createErr)
			}
		}
	} else if err != nil {
		return nil, err
	}

	return s.buildView(ctx, estimate)
}

// Get возвращает смету по ID с деревом позиций
func (s *EstimateService) Get(ctx context.Context, p access.Principal, estimateID string) (*EstimateView, error) {
	estimate, err := s.findEstimate(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, estimate.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewAccess(ctx, p, project); err != nil {
		return nil, err
	}

	return s.buildView(ctx, estimate)
}

// AddItem добавляет позицию в смету
func (s *EstimateService) AddItem(ctx context.Context, p access.Principal, estimateID string, req *AddItemRequest) (*entity.EstimateItem, error) {
	estimate, err := s.findEstimate(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditEstimate(p) {
		return nil, fmt.Errorf("%w: недостаточно прав для изменения сметы", ErrForbidden)
	}

	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: количество не может быть отрицательным", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
	}

	status := entity.ItemStatusNotStarted
	if req.Status != nil {
		if !entity.ValidItemStatus(*req.Status) {
			return nil, fmt.Errorf("%w: неизвестный статус %q", ErrValidation, *req.Status)
		}
		status = *req.Status
	}

	if req.ParentID != nil {
		parent, err := s.estimateRepo.FindItemByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: родительская позиция не найдена", ErrValidation)
			}
			return nil, err
		}
		if parent.EstimateID != estimate.ID {
			return nil, fmt.Errorf("%w: родительская позиция из другой сметы", ErrValidation)
		}
	}

	item := &entity.EstimateItem{
		ID:         generateID(),
		EstimateID: estimate.ID,
		ParentID:   req.ParentID,
		Name:       req.Name,
		Unit:       req.Unit,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Amount:     calcAmount(req.Quantity, req.Price),
		Status:     status,
		Revision:   1,
	}
	if err := s.estimateRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("создание позиции: %w", err)
	}
	return item, nil
}

// UpdateItem частично обновляет позицию и пересчитывает сумму
func (s *EstimateService) UpdateItem(ctx context.Context, p access.Principal, itemID string, req *UpdateItemRequest) (*entity.EstimateItem, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditEstimate(p) {
		return nil, fmt.Errorf("%w: недостаточно прав для изменения сметы", ErrForbidden)
	}

	expected := item.Revision
	if req.Revision != nil {
		if *req.Revision != item.Revision {
			return nil, fmt.Errorf("%w: позиция изменена параллельно", ErrConflict)
		}
		expected = *req.Revision
	}

	quantity := item.Quantity
	price := item.Price
	fields := map[string]interface{}{}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: название не может быть пустым", ErrValidation)
		}
		fields["name"] = *req.Name
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: количество не может быть отрицательным", ErrValidation)
		}
		quantity = *req.Quantity
		fields["quantity"] = quantity
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
		}
		price = *req.Price
		fields["price"] = price
	}
	if req.Status != nil {
		if !entity.ValidItemStatus(*req.Status) {
			return nil, fmt.Errorf("%w: неизвестный статус %q", ErrValidation, *req.Status)
		}
		fields["status"] = *req.Status
	}
	fields["amount"] = calcAmount(quantity, price)
	fields["revision"] = expected + 1

	affected, err := s.estimateRepo.UpdateItemFields(ctx, itemID, expected, fields)
	if err != nil {
		return nil, fmt.Errorf("обновление позиции: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: позиция изменена параллельно", ErrConflict)
	}

	return s.findItem(ctx, itemID)
}

// ChangeStatus меняет статус позиции с учётом роли.
// Заказчик может установить только статус «профинансирован».
func (s *EstimateService) ChangeStatus(ctx context.Context, p access.Principal, itemID, status string) (*entity.EstimateItem, error) {
	if !entity.ValidItemStatus(status) {
		return nil, fmt.Errorf("%w: неизвестный статус %q", ErrValidation, status)
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !access.CanChangeItemStatus(p, status) {
		return nil, fmt.Errorf("%w: роль не позволяет установить статус %q", ErrForbidden, status)
	}

	fields := map[string]interface{}{
		"status":   status,
		"revision": item.Revision + 1,
	}
	affected, err := s.estimateRepo.UpdateItemFields(ctx, itemID, item.Revision, fields)
	if err != nil {
		return nil, fmt.Errorf("смена статуса: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: позиция изменена параллельно", ErrConflict)
	}

	return s.findItem(ctx, itemID)
}

// DeleteItem удаляет позицию вместе со всеми вложенными
func (s *EstimateService) DeleteItem(ctx context.Context, p access.Principal, itemID string) error {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return err
	}

	if !access.CanEditEstimate(p) {
		return fmt.Errorf("%w: недостаточно прав для изменения сметы", ErrForbidden)
	}

	items, err := s.estimateRepo.ListItems(ctx, item.EstimateID)
	if err != nil {
		return err
	}

	ids := collectSubtreeIDs(items, item.ID)
	if err := s.estimateRepo.DeleteItems(ctx, ids); err != nil {
		return fmt.Errorf("удаление позиций: %w", err)
	}
	return nil
}

// collectSubtreeIDs возвращает ID позиции и всех её потомков
func collectSubtreeIDs(items []entity.EstimateItem, rootID string) []string {
	children := make(map[string][]string, len(items))
	for _, it := range items {
		if it.ParentID != nil {
			children[*it.ParentID] = append(children[*it.ParentID], it.ID)
		}
	}

	ids := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, childID := range children[id] {
			ids = append(ids, childID)
			queue = append(queue, childID)
		}
	}
	return ids
}

// itemStatusLabels подписи статусов для выгрузки
var itemStatusLabels = map[string]string{
	entity.ItemStatusNotStarted: "Не начат",
	entity.ItemStatusFinanced:   "Профинансирован",
	entity.ItemStatusInProgress: "В работе",
	entity.ItemStatusCompleted:  "Завершён",
	entity.ItemStatusRework:     "На доработке",
	entity.ItemStatusAccepted:   "Принят",
}

// Export выгружает смету в xlsx с иерархической нумерацией позиций
func (s *EstimateService) Export(ctx context.Context, p access.Principal, estimateID string) (*excelize.File, error) {
	view, err := s.Get(ctx, p, estimateID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Смета"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"№", "Наименование", "Ед. изм.", "Кол-во", "Цена", "Сумма", "Статус"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetColWidth(sheet, "B", "B", 50)
	f.SetColWidth(sheet, "C", "G", 16)

	row := 2
	var walk func(nodes []*EstimateItemNode, prefix string)
	walk = func(nodes []*EstimateItemNode, prefix string) {
		for i, node := range nodes {
			number := strconv.Itoa(i + 1)
			if prefix != "" {
				number = prefix + "." + number
			}
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), number)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), node.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), node.Unit)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), node.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), node.Price)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), math.Round(node.Amount*100)/100)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), itemStatusLabels[node.Status])
			row++
			walk(node.Children, number)
		}
	}
	walk(view.Items, "")

	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Итого")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), math.Round(view.Total*100)/100)

	return f, nil
}

func (s *EstimateService) buildView(ctx context.Context, estimate *entity.Estimate) (*EstimateView, error) {
	items, err := s.estimateRepo.ListItems(ctx, estimate.ID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, it := range items {
		total += it.Amount
	}

	return &EstimateView{
		Estimate: estimate,
		Items:    BuildItemTree(items),
		Total:    total,
	}, nil
}

func (s *EstimateService) findEstimate(ctx context.Context, id string) (*entity.Estimate, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: смета не найдена", ErrNotFound)
		}
		return nil, err
	}
	return estimate, nil
}

func (s *EstimateService) findItem(ctx context.Context, id string) (*entity.EstimateItem, error) {
	item, err := s.estimateRepo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: позиция сметы не найдена", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *EstimateService) checkViewAccess(ctx context.Context, p access.Principal, project *entity.Project) error {
	isMember, err := s.projectRepo.IsMember(ctx, project.ID, p.ID)
	if err != nil {
		return err
	}
	if !access.CanViewProject(p, project, isMember) {
		return fmt.Errorf("%w: нет доступа к проекту", ErrForbidden)
	}
	return nil
}

// calcAmount хранит сумму ровно как произведение, округление — дело выгрузки
func calcAmount(quantity, price float64) float64 {
	return quantity * price
}
