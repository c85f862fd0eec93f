package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"module:view",
		"module:complete",
		"assessment:view",
		"attempt:submit",
		"attempt:view-own",
		"report:view-own",
	},
	"teacher": {
		"module:view",
		"assessment:view",
		"attempt:view-all",
		"report:view-all",
	},
	"admin": {
		"*", // everything
	},
}
