package rbac

// Default policy. Graders submit work for scoring, auditors read the
// anomaly log, admin can do everything.
var RolePermissions = map[string][]string{
	"grader": {
		"submission:score",
	},
	"auditor": {
		"anomaly:read",
	},
	"admin": {
		"*", // everything
	},
}
