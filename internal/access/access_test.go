package access

import (
	"testing"

	"github.com/GRAF231/brigada/internal/entity"
)

func TestCanChangeItemStatus_ClientOnlyFinanced(t *testing.T) {
	client := Principal{ID: "u1", Role: entity.RoleClient}

	if !CanChangeItemStatus(client, entity.ItemStatusFinanced) {
		t.Error("client must be able to mark item as financed")
	}

	for _, status := range []string{
		entity.ItemStatusNotStarted,
		entity.ItemStatusInProgress,
		entity.ItemStatusCompleted,
		entity.ItemStatusRework,
		entity.ItemStatusAccepted,
	} {
		if CanChangeItemStatus(client, status) {
			t.Errorf("client must not set status %q", status)
		}
	}
}

func TestCanChangeItemStatus_EditorsAnyStatus(t *testing.T) {
	statuses := []string{
		entity.ItemStatusNotStarted,
		entity.ItemStatusFinanced,
		entity.ItemStatusInProgress,
		entity.ItemStatusCompleted,
		entity.ItemStatusRework,
		entity.ItemStatusAccepted,
	}
	for _, role := range []string{entity.RoleManager, entity.RoleCoordinator} {
		p := Principal{ID: "u1", Role: role}
		for _, status := range statuses {
			if !CanChangeItemStatus(p, status) {
				t.Errorf("%s must be able to set status %q", role, status)
			}
		}
	}
}

func TestCanChangeItemStatus_OtherRolesDenied(t *testing.T) {
	for _, role := range []string{entity.RoleExpert, entity.RoleMaster, entity.RoleDesigner} {
		p := Principal{ID: "u1", Role: role}
		if CanChangeItemStatus(p, entity.ItemStatusFinanced) {
			t.Errorf("%s must not change estimate item status", role)
		}
	}
}

func TestCanEditEstimate(t *testing.T) {
	allowed := map[string]bool{
		entity.RoleManager:     true,
		entity.RoleCoordinator: true,
		entity.RoleClient:      false,
		entity.RoleExpert:      false,
		entity.RoleMaster:      false,
		entity.RoleDesigner:    false,
	}
	for role, want := range allowed {
		if got := CanEditEstimate(Principal{ID: "u1", Role: role}); got != want {
			t.Errorf("CanEditEstimate(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestCanChangeScheduleStatus_MasterAllowed(t *testing.T) {
	if !CanChangeScheduleStatus(Principal{ID: "u1", Role: entity.RoleMaster}) {
		t.Error("master must be able to change schedule item status")
	}
	if CanChangeScheduleStatus(Principal{ID: "u1", Role: entity.RoleClient}) {
		t.Error("client must not change schedule item status")
	}
}

func TestCanViewProject(t *testing.T) {
	project := &entity.Project{ID: "p1", ClientID: "client-1", ManagerID: "mgr-1"}

	cases := []struct {
		name     string
		p        Principal
		isMember bool
		want     bool
	}{
		{"manager sees everything", Principal{ID: "mgr-2", Role: entity.RoleManager}, false, true},
		{"own client", Principal{ID: "client-1", Role: entity.RoleClient}, false, true},
		{"foreign client", Principal{ID: "client-2", Role: entity.RoleClient}, false, false},
		{"team member", Principal{ID: "m1", Role: entity.RoleMaster}, true, true},
		{"outsider", Principal{ID: "m2", Role: entity.RoleMaster}, false, false},
	}
	for _, tc := range cases {
		if got := CanViewProject(tc.p, project, tc.isMember); got != tc.want {
			t.Errorf("%s: CanViewProject = %v, want %v", tc.name, got, tc.want)
		}
	}
}
