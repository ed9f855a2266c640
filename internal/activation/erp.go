package activation

import (
	"context"

	"golang.org/x/text/language"

	"vrent/internal/status"
	"vrent/pkg/erp"
)

// DocumentUpdater is the part of the ERP client the activator needs.
type DocumentUpdater interface {
	UpdateDocument(ctx context.Context, doctype, name string, fields map[string]any) error
}

var _ DocumentUpdater = erp.Client{}

// ERPActivator writes the stage onto the vehicle document in the ERP.
type ERPActivator struct {
	ERP     DocumentUpdater
	Doctype string
	Field   string
	// Format selects the written value: "th" or "en" display label, or "token".
	Format string
}

func (a ERPActivator) ActivateVehicle(ctx context.Context, vehicleKey string, stage status.Token) error {
	field := a.Field
	if field == "" {
		field = "stage"
	}
	return a.ERP.UpdateDocument(ctx, a.Doctype, vehicleKey, map[string]any{field: a.value(stage)})
}

func (a ERPActivator) value(stage status.Token) string {
	switch a.Format {
	case "token":
		return string(stage)
	case "en":
		return status.DisplayLabel(status.DomainVehicle, stage, language.English)
	default:
		return status.DisplayLabel(status.DomainVehicle, stage, language.Thai)
	}
}
