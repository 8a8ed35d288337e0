package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GRAF231/brigada/internal/access"
	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"gorm.io/gorm"
)

// PriceListService сервис прайс-листов
type PriceListService struct {
	repo *repository.PriceListRepository
}

// NewPriceListService создаёт сервис прайс-листов
func NewPriceListService(repo *repository.PriceListRepository) *PriceListService {
	return &PriceListService{repo: repo}
}

// CreatePriceListRequest запрос создания прайс-листа
type CreatePriceListRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// PriceItemRequest запрос создания или обновления позиции прайс-листа
type PriceItemRequest struct {
	Name  string  `json:"name" binding:"required"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
}

// PriceListView прайс-лист с позициями
type PriceListView struct {
	*entity.PriceList
	Items []entity.PriceItem `json:"items"`
}

// Create создаёт прайс-лист
func (s *PriceListService) Create(ctx context.Context, p access.Principal, req *CreatePriceListRequest) (*entity.PriceList, error) {
	if !p.IsManager() {
		return nil, fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	if !entity.ValidPriceListType(req.Type) {
		return nil, fmt.Errorf("%w: неизвестный тип прайс-листа %q", ErrValidation, req.Type)
	}

	list := &entity.PriceList{
		ID:   generateID(),
		Name: req.Name,
		Type: req.Type,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("создание прайс-листа: %w", err)
	}
	return list, nil
}

// List возвращает прайс-листы. Заказчику мастерские цены не показываются.
func (s *PriceListService) List(ctx context.Context, p access.Principal, listType string) ([]entity.PriceList, error) {
	if p.IsClient() {
		listType = entity.PriceListTypeClient
	}
	if listType != "" && !entity.ValidPriceListType(listType) {
		return nil, fmt.Errorf("%w: неизвестный тип прайс-листа %q", ErrValidation, listType)
	}
	return s.repo.List(ctx, listType)
}

// Get возвращает прайс-лист с позициями
func (s *PriceListService) Get(ctx context.Context, p access.Principal, id string) (*PriceListView, error) {
	list, err := s.findList(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsClient() && list.Type != entity.PriceListTypeClient {
		return nil, fmt.Errorf("%w: нет доступа к прайс-листу", ErrForbidden)
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PriceListView{PriceList: list, Items: items}, nil
}

// UpdatePriceListRequest запрос переименования прайс-листа
type UpdatePriceListRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update переименовывает прайс-лист
func (s *PriceListService) Update(ctx context.Context, p access.Principal, id string, req *UpdatePriceListRequest) (*entity.PriceList, error) {
	list, err := s.findList(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsManager() {
		return nil, fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	list.Name = req.Name
	if err := s.repo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("обновление прайс-листа: %w", err)
	}
	return list, nil
}

// Delete удаляет прайс-лист с позициями
func (s *PriceListService) Delete(ctx context.Context, p access.Principal, id string) error {
	if _, err := s.findList(ctx, id); err != nil {
		return err
	}
	if !p.IsManager() {
		return fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

// AddItem добавляет позицию в прайс-лист
func (s *PriceListService) AddItem(ctx context.Context, p access.Principal, listID string, req *PriceItemRequest) (*entity.PriceItem, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !p.IsManager() {
		return nil, fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
	}

	item := &entity.PriceItem{
		ID:          generateID(),
		PriceListID: list.ID,
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("создание позиции: %w", err)
	}
	return item, nil
}

// UpdateItem обновляет позицию прайс-листа
func (s *PriceListService) UpdateItem(ctx context.Context, p access.Principal, itemID string, req *PriceItemRequest) (*entity.PriceItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: позиция не найдена", ErrNotFound)
		}
		return nil, err
	}
	if !p.IsManager() {
		return nil, fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
	}

	item.Name = req.Name
	item.Unit = req.Unit
	item.Price = req.Price
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("обновление позиции: %w", err)
	}
	return item, nil
}

// DeleteItem удаляет позицию прайс-листа
func (s *PriceListService) DeleteItem(ctx context.Context, p access.Principal, itemID string) error {
	if _, err := s.repo.FindItemByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: позиция не найдена", ErrNotFound)
		}
		return err
	}
	if !p.IsManager() {
		return fmt.Errorf("%w: управлять прайс-листами может только менеджер", ErrForbidden)
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// SearchItems ищет позиции по названию для подстановки в смету
func (s *PriceListService) SearchItems(ctx context.Context, p access.Principal, listType, keyword string, limit int) ([]entity.PriceItem, error) {
	if p.IsClient() {
		listType = entity.PriceListTypeClient
	}
	return s.repo.SearchItems(ctx, listType, keyword, limit)
}

func (s *PriceListService) findList(ctx context.Context, id string) (*entity.PriceList, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: прайс-лист не найден", ErrNotFound)
		}
		return nil, err
	}
	return list, nil
}
