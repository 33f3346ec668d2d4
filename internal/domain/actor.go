package domain

// Role is the closed set of internal actor roles. The authentication
// collaborator supplies the current actor; nothing here verifies identity.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// Actor is the current caller as supplied by the auth collaborator
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// ParseRole maps the collaborator-supplied role string onto the closed set
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOperator:
		return RoleOperator, true
	}
	return "", false
}

// One permission check per protected operation

func (a Actor) CanSubmitRequests() bool {
	return a.Role == RoleAdmin || a.Role == RoleOperator
}

func (a Actor) CanIssuePublicLinks() bool {
	return a.Role == RoleAdmin || a.Role == RoleOperator
}

func (a Actor) CanEditPendingRequests() bool {
	return a.Role == RoleAdmin || a.Role == RoleOperator
}

func (a Actor) CanCancelBookings() bool {
	return a.Role == RoleAdmin
}

func (a Actor) CanReschedule() bool {
	return a.Role == RoleAdmin || a.Role == RoleOperator
}
