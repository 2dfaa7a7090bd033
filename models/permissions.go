package models

type Permission int

const (
	ENTITY_READ Permission = iota
	ENTITY_WRITE
	CHANGE_REQUEST_CREATE
	CHANGE_REQUEST_LIST_OWN
	CHANGE_REQUEST_REVIEW
	CHANGE_REQUEST_STATS
)

func (p Permission) String() string {
	switch p {
	case ENTITY_READ:
		return "ENTITY_READ"
	case ENTITY_WRITE:
		return "ENTITY_WRITE"
	case CHANGE_REQUEST_CREATE:
		return "CHANGE_REQUEST_CREATE"
	case CHANGE_REQUEST_LIST_OWN:
		return "CHANGE_REQUEST_LIST_OWN"
	case CHANGE_REQUEST_REVIEW:
		return "CHANGE_REQUEST_REVIEW"
	case CHANGE_REQUEST_STATS:
		return "CHANGE_REQUEST_STATS"
	default:
		return "UNKNOWN_PERMISSION"
	}
}

var ROLES_PERMISSIONS = map[Role][]Permission{
	NO_ROLE: {},
	VIEWER: {
		ENTITY_READ,
	},
	OPERATOR: {
		ENTITY_READ,
		ENTITY_WRITE,
	},
	MANAGER: {
		ENTITY_READ,
		ENTITY_WRITE,
		CHANGE_REQUEST_CREATE,
		CHANGE_REQUEST_LIST_OWN,
	},
	ADMIN: {
		ENTITY_READ,
		ENTITY_WRITE,
		CHANGE_REQUEST_CREATE,
		CHANGE_REQUEST_LIST_OWN,
		CHANGE_REQUEST_REVIEW,
		CHANGE_REQUEST_STATS,
	},
}
