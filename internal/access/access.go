// Package access собирает все проверки прав в одном месте, чтобы
// сервисы не дублировали ролевую логику по вызовам.
package access

import (
	"github.com/GRAF231/brigada/internal/entity"
)

// Principal аутентифицированный пользователь запроса
type Principal struct {
	ID   string
	Role string
}

// IsManager менеджер проекта
func (p Principal) IsManager() bool {
	return p.Role == entity.RoleManager
}

// IsClient заказчик
func (p Principal) IsClient() bool {
	return p.Role == entity.RoleClient
}

// CanEditEstimate право редактировать смету: добавлять, менять и
// удалять позиции, создавать смету при первом обращении
func CanEditEstimate(p Principal) bool {
	return p.Role == entity.RoleManager || p.Role == entity.RoleCoordinator
}

// CanChangeItemStatus право выставить позиции сметы статус status.
// Заказчик ограничен единственным переходом — "профинансировано".
func CanChangeItemStatus(p Principal, status string) bool {
	if CanEditEstimate(p) {
		return true
	}
	if p.Role == entity.RoleClient {
		return status == entity.ItemStatusFinanced
	}
	return false
}

// CanEditSchedule право редактировать график работ
func CanEditSchedule(p Principal) bool {
	return p.Role == entity.RoleManager || p.Role == entity.RoleCoordinator
}

// CanChangeScheduleStatus право менять статус работы: помимо
// редакторов графика, мастер отмечает ход своих работ
func CanChangeScheduleStatus(p Principal) bool {
	return CanEditSchedule(p) || p.Role == entity.RoleMaster
}

// CanManageProject право создавать и удалять проекты, управлять
// составом участников и прайс-листами
func CanManageProject(p Principal) bool {
	return p.Role == entity.RoleManager
}

// CanViewProject право видеть проект: менеджер видит всё, заказчик —
// свои проекты, остальные — проекты, где они участники
func CanViewProject(p Principal, project *entity.Project, isMember bool) bool {
	if p.IsManager() {
		return true
	}
	if project.ClientID == p.ID {
		return true
	}
	return isMember
}
