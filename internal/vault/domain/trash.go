package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of entity captured in a trash record.
type EntityType string

const (
	EntityOrganization EntityType = "organization"
	EntityCollection   EntityType = "collection"
	EntityFolder       EntityType = "folder"
	EntityCredential   EntityType = "credential"
)

// TrashRecord captures a full snapshot of a soft-deleted entity so it can be
// restored. Hard deletion happens only through an explicit purge of the
// record; the snapshot is then gone for good.
type TrashRecord struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Snapshot   json.RawMessage
	DeletedBy  uuid.UUID
	CreatedAt  time.Time
}

// NewTrashRecord snapshots an entity into a trash record.
func NewTrashRecord(
	companyID uuid.UUID,
	entityType EntityType,
	entityID uuid.UUID,
	entity any,
	deletedBy uuid.UUID,
) (*TrashRecord, error) {
	snapshot, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	return &TrashRecord{
		ID:         uuid.Must(uuid.NewV7()),
		CompanyID:  companyID,
		EntityType: entityType,
		EntityID:   entityID,
		Snapshot:   snapshot,
		DeletedBy:  deletedBy,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
