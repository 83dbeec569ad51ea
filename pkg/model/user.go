package model

// User is owned by the external users service. Roles carries the role names
// granted to the user; holding any configured approver role grants the
// approver capability.
type User struct {
	ID       string   `json:"id"`
	MemberID string   `json:"member_id"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (u *User) HasAnyRole(roles []string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
