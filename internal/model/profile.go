package model

import "time"

// UserProfile is the duty profile of one staff member, keyed by their
// Discord user id. Created on first wizard completion, overwritten in
// place on edit, never deleted.
type UserProfile struct {
	IdentityID    string    `json:"identity_id"`
	DisplayName   string    `json:"display_name"`
	CharacterName string    `json:"character_name"`
	Department    string    `json:"department"`
	Rank          string    `json:"rank"`
	CallSign      string    `json:"call_sign"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Departments is the fixed set the server operates. Sessions recorded
// under any other value still count toward global totals but are not
// broken out in department statistics.
var Departments = []string{
	"LSPD",
	"EMS",
	"Fire Department",
	"DOJ",
	"Mechanic",
	"Staff",
}

// DepartmentRanks maps each department to its selectable ranks, in
// ascending order of seniority.
var DepartmentRanks = map[string][]string{
	"LSPD":            {"Cadet", "Officer", "Sergeant", "Lieutenant", "Captain", "Chief"},
	"EMS":             {"Trainee", "EMT", "Paramedic", "Supervisor", "Chief"},
	"Fire Department": {"Probationary", "Firefighter", "Engineer", "Captain", "Chief"},
	"DOJ":             {"Paralegal", "Attorney", "District Attorney", "Judge"},
	"Mechanic":        {"Apprentice", "Mechanic", "Senior Mechanic", "Shop Owner"},
	"Staff":           {"Helper", "Moderator", "Admin", "Management"},
}

// KnownDepartment reports whether dept belongs to the fixed set.
func KnownDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
