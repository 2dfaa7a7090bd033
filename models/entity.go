package models

import (
	"strings"
)

type Backend int

const (
	BackendUnknown Backend = iota
	BackendRelational
	BackendDocument
)

func (b Backend) String() string {
	switch b {
	case BackendRelational:
		return "RELATIONAL"
	case BackendDocument:
		return "DOCUMENT"
	}
	return "UNKNOWN"
}

func BackendFrom(s string) Backend {
	switch strings.ToUpper(s) {
	case "RELATIONAL":
		return BackendRelational
	case "DOCUMENT":
		return BackendDocument
	}
	return BackendUnknown
}

type EntityType string

const (
	EntityZone              EntityType = "zone"
	EntityWard              EntityType = "ward"
	EntityArea              EntityType = "area"
	EntityEmployee          EntityType = "employee"
	EntityVehicle           EntityType = "vehicle"
	EntityDevice            EntityType = "device"
	EntityDumpYard          EntityType = "dump_yard"
	EntityDustBin           EntityType = "dust_bin"
	EntityIpLog             EntityType = "ip_log"
	EntityHouse             EntityType = "house"
	EntityGarbageCollection EntityType = "garbage_collection"
	EntityAttendance        EntityType = "attendance"
	EntityCarbonFootprint   EntityType = "carbon_footprint"
	EntityQueryPost         EntityType = "query_post"
)

const RelationalSchema = "swm"

// Entity describes where a mutable entity lives. Relational entities are addressed by a
// schema qualified table, document entities by a bare collection (model) name.
type Entity struct {
	Type     EntityType
	Route    string
	Backend  Backend
	Schema   string
	Table    string
	IdColumn string
	Category string
}

// Target is the identifier persisted as the change record's target entity
func (e Entity) Target() string {
	if e.Backend == BackendRelational {
		return e.Schema + "." + e.Table
	}
	return e.Table
}

func relationalEntity(t EntityType, route, table, category string) Entity {
	return Entity{
		Type:     t,
		Route:    route,
		Backend:  BackendRelational,
		Schema:   RelationalSchema,
		Table:    table,
		IdColumn: "id",
		Category: category,
	}
}

func documentEntity(t EntityType, route, collection, category string) Entity {
	return Entity{
		Type:     t,
		Route:    route,
		Backend:  BackendDocument,
		Table:    collection,
		IdColumn: "_id",
		Category: category,
	}
}

var EntityCatalog = []Entity{
	relationalEntity(EntityZone, "zones", "zone_table", "administrative"),
	relationalEntity(EntityWard, "wards", "ward_table", "administrative"),
	relationalEntity(EntityArea, "areas", "area_details", "administrative"),
	relationalEntity(EntityEmployee, "employees", "employee_table", "human_resources"),
	relationalEntity(EntityVehicle, "vehicles", "vehicle_table", "fleet"),
	relationalEntity(EntityDevice, "devices", "device_table", "devices"),
	relationalEntity(EntityDumpYard, "dumpYards", "dump_yard_table", "waste_infrastructure"),
	relationalEntity(EntityDustBin, "dustBins", "dustbin_table", "waste_infrastructure"),
	relationalEntity(EntityIpLog, "ipLogs", "ip_logs", "security"),
	documentEntity(EntityHouse, "houses", "HouseDetails", "households"),
	documentEntity(EntityGarbageCollection, "garbageCollections", "GarbageCollection", "collection_operations"),
	documentEntity(EntityAttendance, "attendance", "Attendance", "human_resources"),
	documentEntity(EntityCarbonFootprint, "carbonFootprints", "CarbonFootprint", "analytics"),
	documentEntity(EntityQueryPost, "queries", "QueryPost", "community"),
}

var entityIndex = buildEntityIndex(EntityCatalog)

func buildEntityIndex(catalog []Entity) map[string]Entity {
	index := make(map[string]Entity, len(catalog)*4)
	for _, e := range catalog {
		for _, name := range []string{string(e.Type), e.Route, e.Table, e.Target()} {
			index[strings.ToLower(name)] = e
		}
	}
	return index
}

// FindEntity resolves an entity type, route, table/collection name or schema qualified
// table name to its catalog entry. Matching is case insensitive.
func FindEntity(name string) (Entity, bool) {
	e, ok := entityIndex[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// EntityRow is a single relational row or document, keyed by column or field name.
type EntityRow map[string]any
