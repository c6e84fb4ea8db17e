package store

import (
	"go.uber.org/zap"

	"parking-status-backend/internal/model"
)

// ParkingDataRepository holds the historical occupancy record of every
// facility, keyed by facility id. It is populated by the collector and
// read by the stats engine; the two live paths (filtering, geosearch)
// never touch it.
type ParkingDataRepository struct {
	*Store[int, model.ParkingData]
}

// OpenParkingDataRepository opens the repository backed by the snapshot
// file at path.
func OpenParkingDataRepository(path string, logger *zap.Logger) *ParkingDataRepository {
	return &ParkingDataRepository{Store: Open[int, model.ParkingData](path, logger)}
}

// Get returns a detached copy of the record: the nested history maps are
// cloned so callers can never reach back into the store's state once the
// lock is released. Writers fold through Update instead.
func (r *ParkingDataRepository) Get(id int) (model.ParkingData, bool) {
	d, ok := r.Store.Get(id)
	if !ok {
		return model.ParkingData{}, false
	}
	return d.Clone(), true
}

// Values returns detached copies of all records.
func (r *ParkingDataRepository) Values() []model.ParkingData {
	values := r.Store.Values()
	for i := range values {
		values[i] = values[i].Clone()
	}
	return values
}
