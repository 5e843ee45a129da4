package model

import (
	"testing"

	"backend/internal/workflow"

	"github.com/shopspring/decimal"
)

func TestSyncWorkflowFields(t *testing.T) {
	tests := []struct {
		name      string
		status    workflow.Status
		wantState workflow.Status
		wantStage string
		wantRole  workflow.Role
	}{
		{"empty status defaults", "", workflow.StatusPendingManager, "manager", workflow.RoleManager},
		{"unknown status defaults", "garbage", workflow.StatusPendingManager, "manager", workflow.RoleManager},
		{"finance stays", workflow.StatusPendingFinance, workflow.StatusPendingFinance, "finance", workflow.RoleFinance},
		{"rejected terminal", workflow.StatusRejected, workflow.StatusRejected, "done", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := PurchaseRequest{Status: tt.status}
			pr.SyncWorkflowFields()
			if pr.Status != tt.wantState {
				t.Errorf("status = %s, want %s", pr.Status, tt.wantState)
			}
			if pr.CurrentStage != tt.wantStage {
				t.Errorf("stage = %s, want %s", pr.CurrentStage, tt.wantStage)
			}
			if pr.NextRole != tt.wantRole {
				t.Errorf("next role = %s, want %s", pr.NextRole, tt.wantRole)
			}
		})
	}
}

func TestSyncDefaultsProcurementStatus(t *testing.T) {
	pr := PurchaseRequest{Status: workflow.StatusPendingProcurement}
	pr.SyncWorkflowFields()
	if pr.ProcurementStatus != workflow.ProcurementPending {
		t.Errorf("procurement status = %s, want pending", pr.ProcurementStatus)
	}

	pr = PurchaseRequest{Status: workflow.StatusPendingManager}
	pr.SyncWorkflowFields()
	if pr.ProcurementStatus != "" {
		t.Errorf("procurement status = %s, want empty before procurement stage", pr.ProcurementStatus)
	}
}

func TestAfterFindNormalizesItems(t *testing.T) {
	pr := PurchaseRequest{
		Status: "",
		Items: []PurchaseItem{
			{ItemName: "a", Status: ""},
			{ItemName: "b", Status: workflow.ItemRejected},
		},
	}
	if err := pr.AfterFind(nil); err != nil {
		t.Fatalf("AfterFind: %v", err)
	}
	if pr.Items[0].Status != workflow.ItemPending {
		t.Errorf("item[0] status = %s, want pending", pr.Items[0].Status)
	}
	if pr.Items[1].Status != workflow.ItemRejected {
		t.Errorf("item[1] status = %s, want rejected", pr.Items[1].Status)
	}
}

func TestRecalcTotal(t *testing.T) {
	item := PurchaseItem{Quantity: 2.5, Price: decimal.RequireFromString("4.00")}
	item.RecalcTotal()
	if want := decimal.RequireFromString("10.00"); !item.Total.Equal(want) {
		t.Errorf("total = %s, want %s", item.Total, want)
	}
}

func TestValidCurrency(t *testing.T) {
	for _, c := range []string{CurrencySYP, CurrencyUSD, CurrencyEUR} {
		if !ValidCurrency(c) {
			t.Errorf("ValidCurrency(%q) = false", c)
		}
	}
	for _, c := range []string{"", "usd", "GBP"} {
		if ValidCurrency(c) {
			t.Errorf("ValidCurrency(%q) = true", c)
		}
	}
}
