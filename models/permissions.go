// ABOUTME: Role-derived permission policy for the clinic client
// ABOUTME: Maps WordPress role names to the fixed permission set
package models

// Permission is one of the fixed capabilities the current identity either has
// or lacks. The set is closed; UI code must not invent new keys.
type Permission string

const (
	PermApptView    Permission = "appt.view"
	PermApptCreate  Permission = "appt.create"
	PermApptUpdate  Permission = "appt.update"
	PermApptDelete  Permission = "appt.delete"
	PermCustomerAdd Permission = "customer.add"
)

// AllPermissions lists every permission in the closed set.
func AllPermissions() []Permission {
	return []Permission{
		PermApptView,
		PermApptCreate,
		PermApptUpdate,
		PermApptDelete,
		PermCustomerAdd,
	}
}

// Recognized role names. Any other role (e.g. the photographer role, which is
// routed away from the staff screens entirely) grants nothing here.
const (
	RoleAdministrator = "administrator"
	RoleTelesale      = "telesale"
	RoleAssistant     = "assistant"
)

// PermissionsForRoles derives the permission map for a role set. It is a pure
// function evaluated fresh on every call; the result is never cached.
//
// Policy: administrators and telesales get everything; assistants can view
// appointments and add customers but not touch the schedule; anything else
// gets nothing.
func PermissionsForRoles(roles []string) map[Permission]bool {
	var admin, telesale, assistant bool
	for _, r := range roles {
		switch r {
		case RoleAdministrator:
			admin = true
		case RoleTelesale:
			telesale = true
		case RoleAssistant:
			assistant = true
		}
	}

	return map[Permission]bool{
		PermApptView:    admin || telesale || assistant,
		PermApptCreate:  admin || telesale,
		PermApptUpdate:  admin || telesale,
		PermApptDelete:  admin || telesale,
		PermCustomerAdd: admin || telesale || assistant,
	}
}
