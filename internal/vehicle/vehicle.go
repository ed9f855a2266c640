package vehicle

import (
	"vrent/internal/rental"
	"vrent/internal/status"
)

type Vehicle struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Plate    string       `json:"plate"`
	RawStage string       `json:"rawStage"`
	Stage    status.Token `json:"stage"`
}

var (
	idFields    = []string{"name", "id", "vehicle_id", "car_id"}
	nameFields  = []string{"vehicle_name", "car_name", "title", "model_name", "model"}
	plateFields = rental.PlateFields
	stageFields = []string{"stage", "vehicle_status", "car_status", "status"}
)

func FromRecord(rec rental.Record) Vehicle {
	v := Vehicle{
		ID:       rec.First(idFields...),
		Name:     rec.First(nameFields...),
		Plate:    rec.First(plateFields...),
		RawStage: rec.First(stageFields...),
	}
	v.Stage = status.Canonicalize(status.DomainVehicle, v.RawStage)
	return v
}

func FromRecords(recs []rental.Record) []Vehicle {
	out := make([]Vehicle, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}
